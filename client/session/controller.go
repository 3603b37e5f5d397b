package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// AnswerResult is the answer returned for one uploaded question.
type AnswerResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AudioURL string `json:"audio_url,omitempty"`
}

// CaptureDevice is the microphone. Start may block while the platform
// waits for the user to grant access. Stop finalizes and returns the
// captured audio. Release frees the hardware and must be safe exactly
// once per started capture.
type CaptureDevice interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
	Release()
}

// AnswerClient talks to the answer endpoint. BookLoaded reports the
// book context flag. UploadQuestion carries one finalized recording and
// blocks until the server resolves, without any timeout.
type AnswerClient interface {
	BookLoaded() bool
	UploadQuestion(ctx context.Context, audio []byte) (*AnswerResult, error)
}

// Display is the user-facing output sink.
type Display interface {
	// SetControls enables or disables the record and stop controls.
	// Exactly one of the two is enabled at any instant.
	SetControls(recordEnabled, stopEnabled bool)
	ShowElapsed(text string)
	ClearResult()
	ShowResult(result *AnswerResult)
	ShowError(text string)
}

// Player plays answer audio. A new Play interrupts the previous one.
type Player interface {
	Play(url string) error
}

// Controller owns a single recording lifecycle: record, stop, upload,
// display. All collaborators are injected; every state change goes
// through the Transition function.
type Controller struct {
	device  CaptureDevice
	answers AnswerClient
	display Display
	player  Player
	clock   clock.Clock
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	startedAt time.Time
	stopTick  chan struct{}
	released  bool
	result    *AnswerResult
}

// NewController creates a controller in the Idle state with the record
// control enabled.
func NewController(
	device CaptureDevice,
	answers AnswerClient,
	display Display,
	player Player,
	clk clock.Clock,
	logger *zap.Logger,
) *Controller {
	if clk == nil {
		clk = clock.New()
	}
	c := &Controller{
		device:  device,
		answers: answers,
		display: display,
		player:  player,
		clock:   clk,
		logger:  logger,
		state:   StateIdle,
	}
	c.display.SetControls(true, false)
	return c
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastResult returns the most recently displayed answer, if any.
func (c *Controller) LastResult() (*AnswerResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.result != nil
}

// Start begins a new recording session. The book context is read
// exactly once per attempt. A failed precondition leaves the state and
// the controls untouched.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	bookLoaded := c.answers.BookLoaded()
	next, _, err := Transition(c.state, Event{Kind: EventStart, BookLoaded: bookLoaded})
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("Recording not started", zap.Error(err))
		c.display.ShowError("Please load a book first")
		return err
	}
	c.state = next
	c.mu.Unlock()

	if err := c.device.Start(ctx); err != nil {
		c.mu.Lock()
		c.state, _, _ = Transition(c.state, Event{Kind: EventDeviceDenied})
		c.mu.Unlock()
		c.logger.Error("Microphone access denied", zap.Error(err))
		c.display.ShowError("Microphone access denied")
		c.display.SetControls(true, false)
		return &DeviceAccessError{Err: err}
	}

	c.mu.Lock()
	c.state, _, _ = Transition(c.state, Event{Kind: EventDeviceAcquired})
	c.startedAt = c.clock.Now()
	c.released = false
	c.stopTick = make(chan struct{})
	stop := c.stopTick
	started := c.startedAt
	c.mu.Unlock()

	c.display.SetControls(false, true)
	c.display.ShowElapsed("00:00")
	go c.runTimer(started, stop)

	c.logger.Info("Recording started")
	return nil
}

// Stop ends the recording, releases the device and uploads the
// question, blocking until the server resolves. A stop while not
// recording is a no-op.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	next, _, _ := Transition(c.state, Event{Kind: EventStop})
	if next == c.state {
		c.mu.Unlock()
		return nil
	}
	c.state = next
	if c.stopTick != nil {
		close(c.stopTick)
		c.stopTick = nil
	}
	c.mu.Unlock()

	audio, stopErr := c.device.Stop()

	c.mu.Lock()
	c.state, _, _ = Transition(c.state, Event{Kind: EventCaptureStopped})
	release := !c.released
	c.released = true
	c.mu.Unlock()

	// The device is released on every stop, before the upload outcome
	// is known.
	if release {
		c.device.Release()
	}

	if stopErr != nil {
		c.fail("Error: could not finalize recording")
		return &DeviceAccessError{Err: stopErr}
	}

	c.logger.Info("Uploading question", zap.Int("bytes", len(audio)))
	result, err := c.answers.UploadQuestion(ctx, audio)
	if err != nil {
		message := err.Error()
		var uploadErr *UploadError
		if errors.As(err, &uploadErr) {
			message = uploadErr.Message
		}
		c.fail("Error: " + message)
		return err
	}

	c.mu.Lock()
	c.state, _, _ = Transition(c.state, Event{Kind: EventUploadSucceeded})
	c.result = result
	c.mu.Unlock()

	c.display.ClearResult()
	c.display.ShowResult(result)
	c.display.SetControls(true, false)

	if result.AudioURL != "" && c.player != nil {
		if err := c.player.Play(result.AudioURL); err != nil {
			c.logger.Warn("Answer playback failed", zap.Error(err))
		}
	}

	c.logger.Info("Answer received", zap.String("question", result.Question))
	return nil
}

// Replay plays the audio of the most recent answer again.
func (c *Controller) Replay() error {
	result, ok := c.LastResult()
	if !ok || result.AudioURL == "" {
		return &PreconditionError{Reason: "no answer audio to play"}
	}
	return c.player.Play(result.AudioURL)
}

func (c *Controller) fail(message string) {
	c.mu.Lock()
	c.state, _, _ = Transition(c.state, Event{Kind: EventUploadFailed})
	c.mu.Unlock()
	c.display.ShowError(message)
	c.display.SetControls(true, false)
}

func (c *Controller) runTimer(started time.Time, stop chan struct{}) {
	ticker := c.clock.Ticker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			c.display.ShowElapsed(FormatElapsed(now.Sub(started)))
		}
	}
}
