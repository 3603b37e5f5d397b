package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/client/session"
)

const (
	defaultSampleRate = 16000
	defaultChannels   = 1
)

type result struct {
	wavPath string
	err     error
}

// Microphone records from the default input device into a WAV buffer.
// It implements the session capture contract: Start begins recording,
// Stop finalizes and returns the WAV bytes, Release frees the hardware.
type Microphone struct {
	sampleRate int
	channels   int
	tempDir    string
	logger     *zap.Logger

	mu         sync.Mutex
	recording  bool
	terminated bool
	stopCancel context.CancelFunc
	done       chan result
}

var _ session.CaptureDevice = (*Microphone)(nil)

// NewMicrophone creates a microphone recording mono 16 kHz PCM.
func NewMicrophone(logger *zap.Logger) *Microphone {
	return &Microphone{
		sampleRate: defaultSampleRate,
		channels:   defaultChannels,
		tempDir:    os.TempDir(),
		logger:     logger,
	}
}

// Start acquires the device and begins capturing.
func (m *Microphone) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.recording {
		m.mu.Unlock()
		return fmt.Errorf("already recording")
	}

	if err := portaudio.Initialize(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("portaudio init failed: %w", err)
	}

	stopCtx, cancel := context.WithCancel(ctx)
	m.recording = true
	m.terminated = false
	m.stopCancel = cancel
	m.done = make(chan result, 1)
	done := m.done
	m.mu.Unlock()

	go m.recordLoop(stopCtx, done)
	return nil
}

// Stop ends the capture and returns the finalized WAV bytes.
func (m *Microphone) Stop() ([]byte, error) {
	m.mu.Lock()
	if !m.recording {
		m.mu.Unlock()
		return nil, fmt.Errorf("not recording")
	}
	m.recording = false
	cancel := m.stopCancel
	done := m.done
	m.mu.Unlock()

	cancel()
	res := <-done
	if res.err != nil {
		return nil, res.err
	}

	data, err := os.ReadFile(res.wavPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	_ = os.Remove(res.wavPath)
	return data, nil
}

// Release frees the audio hardware. Safe to call once per session.
func (m *Microphone) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.terminated {
		return
	}
	m.terminated = true
	if err := portaudio.Terminate(); err != nil {
		m.logger.Warn("Failed to terminate audio host", zap.Error(err))
	}
}

func (m *Microphone) recordLoop(ctx context.Context, done chan result) {
	wavPath := m.tempWavPath()

	in := make([]int16, 1024)
	stream, err := portaudio.OpenDefaultStream(m.channels, 0, float64(m.sampleRate), len(in), in)
	if err != nil {
		done <- result{err: fmt.Errorf("open stream failed: %w", err)}
		return
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		done <- result{err: fmt.Errorf("start stream failed: %w", err)}
		return
	}

	file, err := os.Create(wavPath)
	if err != nil {
		_ = stream.Stop()
		_ = stream.Close()
		done <- result{err: fmt.Errorf("create wav failed: %w", err)}
		return
	}

	enc := wav.NewEncoder(file, m.sampleRate, 16, m.channels, 1)
	format := &audio.Format{NumChannels: m.channels, SampleRate: m.sampleRate}
	intBuf := make([]int, len(in))

	for {
		select {
		case <-ctx.Done():
			goto finish
		default:
		}

		if err := stream.Read(); err != nil {
			m.logger.Debug("Stream read error", zap.Error(err))
			continue
		}
		for i, v := range in {
			intBuf[i] = int(v)
		}
		buf := &audio.IntBuffer{Format: format, Data: intBuf, SourceBitDepth: 16}
		if err := enc.Write(buf); err != nil {
			_ = enc.Close()
			_ = file.Close()
			_ = stream.Stop()
			_ = stream.Close()
			_ = os.Remove(wavPath)
			done <- result{err: fmt.Errorf("wav write failed: %w", err)}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

finish:
	_ = stream.Stop()
	_ = stream.Close()

	if err := enc.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(wavPath)
		done <- result{err: fmt.Errorf("wav close failed: %w", err)}
		return
	}
	if err := file.Close(); err != nil {
		done <- result{err: fmt.Errorf("wav close failed: %w", err)}
		return
	}

	done <- result{wavPath: wavPath}
}

func (m *Microphone) tempWavPath() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return filepath.Join(m.tempDir, fmt.Sprintf("question_%s.wav", id))
}
