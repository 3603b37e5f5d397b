package tts

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

const (
	defaultLanguageCode = "en-US"
)

// GoogleTextToSpeech implements TextToSpeech using Google Cloud Text-to-Speech.
// Answers are synthesized as MP3 so the page can play them directly.
type GoogleTextToSpeech struct {
	languageCode string
	logger       *zap.Logger
}

var _ repositories.TextToSpeech = (*GoogleTextToSpeech)(nil)

// NewGoogleTextToSpeech creates a new Google TTS instance
func NewGoogleTextToSpeech(languageCode string, logger *zap.Logger) *GoogleTextToSpeech {
	if languageCode == "" {
		languageCode = defaultLanguageCode
	}
	return &GoogleTextToSpeech{
		languageCode: languageCode,
		logger:       logger,
	}
}

// SynthesizeSpeech converts answer text to MP3 audio
func (g *GoogleTextToSpeech) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: g.languageCode,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	g.logger.Info("Synthesized answer audio",
		zap.Int("textLength", len(text)),
		zap.Int("audioSize", len(resp.AudioContent)))

	return resp.AudioContent, nil
}
