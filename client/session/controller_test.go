package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

type fakeDevice struct {
	mu       sync.Mutex
	startErr error
	stopErr  error
	audio    []byte

	starts   int
	stops    int
	releases int
}

func (d *fakeDevice) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		return d.startErr
	}
	d.starts++
	return nil
}

func (d *fakeDevice) Stop() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	return d.audio, d.stopErr
}

func (d *fakeDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releases++
}

func (d *fakeDevice) releaseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.releases
}

type fakeAnswers struct {
	bookLoaded bool
	result     *AnswerResult
	err        error

	bookReads int
	uploads   int
	lastAudio []byte
}

func (a *fakeAnswers) BookLoaded() bool {
	a.bookReads++
	return a.bookLoaded
}

func (a *fakeAnswers) UploadQuestion(ctx context.Context, audio []byte) (*AnswerResult, error) {
	a.uploads++
	a.lastAudio = audio
	return a.result, a.err
}

type fakeDisplay struct {
	mu sync.Mutex

	recordEnabled bool
	stopEnabled   bool
	elapsed       string
	result        *AnswerResult
	errText       string
	clears        int
}

func (d *fakeDisplay) SetControls(recordEnabled, stopEnabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recordEnabled = recordEnabled
	d.stopEnabled = stopEnabled
}

func (d *fakeDisplay) ShowElapsed(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elapsed = text
}

func (d *fakeDisplay) ClearResult() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clears++
	d.result = nil
}

func (d *fakeDisplay) ShowResult(result *AnswerResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.result = result
}

func (d *fakeDisplay) ShowError(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errText = text
}

func (d *fakeDisplay) lastElapsed() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elapsed
}

func (d *fakeDisplay) controls() (bool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recordEnabled, d.stopEnabled
}

type fakePlayer struct {
	urls []string
}

func (p *fakePlayer) Play(url string) error {
	p.urls = append(p.urls, url)
	return nil
}

func newTestController(device *fakeDevice, answers *fakeAnswers, display *fakeDisplay, player *fakePlayer, clk clock.Clock) *Controller {
	return NewController(device, answers, display, player, clk, zap.NewNop())
}

func TestStartWithoutBookNeverTouchesDevice(t *testing.T) {
	device := &fakeDevice{}
	answers := &fakeAnswers{bookLoaded: false}
	display := &fakeDisplay{}
	c := newTestController(device, answers, display, &fakePlayer{}, clock.NewMock())

	err := c.Start(context.Background())
	var precondition *PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("Expected PreconditionError, got %v", err)
	}

	if device.starts != 0 {
		t.Error("Capture device must not be acquired when no book is loaded")
	}
	if c.State() != StateIdle {
		t.Errorf("Expected Idle, got %v", c.State())
	}
	record, stop := display.controls()
	if !record || stop {
		t.Error("Control enablement must not change on a failed precondition")
	}
	if answers.bookReads != 1 {
		t.Errorf("Book context must be read exactly once per attempt, read %d times", answers.bookReads)
	}
}

func TestFullSessionSuccess(t *testing.T) {
	device := &fakeDevice{audio: []byte("wav-bytes")}
	answers := &fakeAnswers{
		bookLoaded: true,
		result:     &AnswerResult{Question: "Q", Answer: "A", AudioURL: "/a.mp3"},
	}
	display := &fakeDisplay{}
	player := &fakePlayer{}
	c := newTestController(device, answers, display, player, clock.NewMock())

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if c.State() != StateRecording {
		t.Fatalf("Expected Recording, got %v", c.State())
	}
	record, stop := display.controls()
	if record || !stop {
		t.Error("While recording, only the stop control is enabled")
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if c.State() != StateDone {
		t.Errorf("Expected Done, got %v", c.State())
	}
	if device.releaseCount() != 1 {
		t.Errorf("Device must be released exactly once, released %d times", device.releaseCount())
	}
	if answers.uploads != 1 || string(answers.lastAudio) != "wav-bytes" {
		t.Errorf("Expected one upload of the captured audio, got %d", answers.uploads)
	}

	display.mu.Lock()
	if display.result == nil || display.result.Question != "Q" || display.result.Answer != "A" {
		t.Errorf("Unexpected displayed result: %+v", display.result)
	}
	if display.clears != 1 {
		t.Errorf("Previous result must be cleared before display, clears=%d", display.clears)
	}
	display.mu.Unlock()

	if len(player.urls) != 1 || player.urls[0] != "/a.mp3" {
		t.Errorf("Expected playback of /a.mp3, got %v", player.urls)
	}

	record, stop = display.controls()
	if !record || stop {
		t.Error("After completion the record control is enabled again")
	}
}

func TestUploadFailureDisplaysServerError(t *testing.T) {
	device := &fakeDevice{audio: []byte("wav")}
	answers := &fakeAnswers{
		bookLoaded: true,
		err:        &UploadError{Message: "bad audio"},
	}
	display := &fakeDisplay{}
	c := newTestController(device, answers, display, &fakePlayer{}, clock.NewMock())

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.Stop(context.Background()); err == nil {
		t.Fatal("Expected upload error")
	}

	if c.State() != StateFailed {
		t.Errorf("Expected Failed, got %v", c.State())
	}
	display.mu.Lock()
	if display.errText != "Error: bad audio" {
		t.Errorf("Expected display text %q, got %q", "Error: bad audio", display.errText)
	}
	display.mu.Unlock()

	if device.releaseCount() != 1 {
		t.Errorf("Device must be released exactly once even when upload fails, released %d times", device.releaseCount())
	}
	record, stop := display.controls()
	if !record || stop {
		t.Error("After a failure the record control is enabled again")
	}
}

func TestDeviceDenied(t *testing.T) {
	device := &fakeDevice{startErr: errors.New("permission denied")}
	answers := &fakeAnswers{bookLoaded: true}
	display := &fakeDisplay{}
	c := newTestController(device, answers, display, &fakePlayer{}, clock.NewMock())

	err := c.Start(context.Background())
	var deviceErr *DeviceAccessError
	if !errors.As(err, &deviceErr) {
		t.Fatalf("Expected DeviceAccessError, got %v", err)
	}
	if c.State() != StateFailed {
		t.Errorf("Expected Failed, got %v", c.State())
	}
	record, stop := display.controls()
	if !record || stop {
		t.Error("After a denied device the record control is enabled again")
	}
	if device.releaseCount() != 0 {
		t.Error("Nothing to release when the device never started")
	}
}

func TestStopWhileIdleIsNoOp(t *testing.T) {
	device := &fakeDevice{}
	answers := &fakeAnswers{bookLoaded: true}
	c := newTestController(device, answers, &fakeDisplay{}, &fakePlayer{}, clock.NewMock())

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop while idle should be a no-op, got %v", err)
	}
	if device.stops != 0 || device.releaseCount() != 0 {
		t.Error("Stop while idle must not touch the device")
	}
	if answers.uploads != 0 {
		t.Error("Stop while idle must not upload")
	}
}

func TestSecondStartWhileRecordingRejected(t *testing.T) {
	device := &fakeDevice{}
	answers := &fakeAnswers{bookLoaded: true}
	c := newTestController(device, answers, &fakeDisplay{}, &fakePlayer{}, clock.NewMock())

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("Expected second start to be rejected by the state guard")
	}
	if device.starts != 1 {
		t.Errorf("Expected one device acquisition, got %d", device.starts)
	}
}

func TestElapsedDisplay(t *testing.T) {
	mock := clock.NewMock()
	device := &fakeDevice{audio: []byte("wav")}
	answers := &fakeAnswers{bookLoaded: true, result: &AnswerResult{Question: "Q", Answer: "A"}}
	display := &fakeDisplay{}
	c := newTestController(device, answers, display, &fakePlayer{}, mock)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := display.lastElapsed(); got != "00:00" {
		t.Errorf("Expected initial elapsed 00:00, got %q", got)
	}

	// Let the timer goroutine attach to the mock before advancing.
	time.Sleep(10 * time.Millisecond)
	mock.Add(65 * time.Second)

	deadline := time.Now().Add(time.Second)
	for display.lastElapsed() != "01:05" {
		if time.Now().After(deadline) {
			t.Fatalf("Expected elapsed 01:05, got %q", display.lastElapsed())
		}
		time.Sleep(time.Millisecond)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestReplayInterruptsWithLastURL(t *testing.T) {
	device := &fakeDevice{audio: []byte("wav")}
	answers := &fakeAnswers{
		bookLoaded: true,
		result:     &AnswerResult{Question: "Q", Answer: "A", AudioURL: "/answer.mp3"},
	}
	player := &fakePlayer{}
	c := newTestController(device, answers, &fakeDisplay{}, player, clock.NewMock())

	if err := c.Replay(); err == nil {
		t.Error("Replay with no prior result should fail")
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := c.Replay(); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if len(player.urls) != 2 || player.urls[1] != "/answer.mp3" {
		t.Errorf("Expected replay of /answer.mp3, got %v", player.urls)
	}
}
