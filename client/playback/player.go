package playback

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/client/session"
)

// Player plays answer audio through an external player process. A new
// Play interrupts whatever is currently playing.
type Player struct {
	baseURL string
	logger  *zap.Logger

	mu      sync.Mutex
	current *exec.Cmd
}

var _ session.Player = (*Player)(nil)

// NewPlayer creates a player. Relative URLs are resolved against
// baseURL.
func NewPlayer(baseURL string, logger *zap.Logger) *Player {
	return &Player{baseURL: baseURL, logger: logger}
}

// Play starts playback of the given audio URL, stopping any playback
// already in progress.
func (p *Player) Play(url string) error {
	if url == "" {
		return fmt.Errorf("empty audio url")
	}
	if len(url) > 0 && url[0] == '/' {
		url = p.baseURL + url
	}

	name, args := playerCommand(url)
	if name == "" {
		return fmt.Errorf("no audio player available")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && p.current.Process != nil {
		// The reaper goroutine from the previous Play collects the exit.
		_ = p.current.Process.Kill()
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}
	p.current = cmd
	p.logger.Info("Playing answer audio", zap.String("url", url))

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// playerCommand picks an installed command line audio player.
func playerCommand(url string) (string, []string) {
	candidates := [][]string{
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", url},
		{"mpv", "--no-video", "--really-quiet", url},
	}
	if runtime.GOOS == "darwin" {
		candidates = append([][]string{{"afplay", url}}, candidates...)
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return c[0], c[1:]
		}
	}
	return "", nil
}
