package session

import (
	"fmt"
	"time"
)

// FormatElapsed renders an elapsed duration as MM:SS, truncated to
// whole seconds. 0 renders as "00:00", 65 seconds as "01:05".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
