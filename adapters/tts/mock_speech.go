package tts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// MockTextToSpeech is a placeholder implementation used when no
// synthesis provider is configured.
type MockTextToSpeech struct {
	logger *zap.Logger
}

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) repositories.TextToSpeech {
	return &MockTextToSpeech{logger: logger}
}

// SynthesizeSpeech implements repositories.TextToSpeech
func (m *MockTextToSpeech) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	m.logger.Info("Mock speech synthesis", zap.Int("textLength", len(text)))

	// Not a playable MP3, but enough to exercise the file plumbing.
	return []byte("mock-mp3:" + text), nil
}
