package stt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for speech recognition,
// used when no Google Cloud credentials are configured.
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// TranscribeAudio implements repositories.SpeechToText
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	s.logger.Info("Processing mock speech-to-text",
		zap.Int("audioSize", len(audioData)),
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding))

	if len(audioData) == 0 {
		return "", fmt.Errorf("no audio data received")
	}

	// Mock transcription based on audio size
	switch {
	case len(audioData) > 10000:
		return "What is the main theme of this book?", nil
	case len(audioData) > 1000:
		return "Who is the main character?", nil
	default:
		return "What is this book about?", nil
	}
}
