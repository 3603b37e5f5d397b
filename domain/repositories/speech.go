package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeAudio converts audio data to text
	TranscribeAudio(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
}

// TextToSpeech abstracts text-to-speech services
type TextToSpeech interface {
	// SynthesizeSpeech converts text to spoken audio (MP3)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// AudioConfig represents audio configuration for speech recognition
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}
