package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the server runtime configuration, populated from the
// environment. A .env file is honored when present.
type Config struct {
	Port      string
	UploadDir string
	BookDir   string

	// Language passed to speech recognition, BCP-47.
	Language string

	// TTSProvider selects the synthesis backend: "google" or "elevenlabs".
	// Anything else falls back to the mock.
	TTSProvider string

	// MongoURI enables persistent exchange history when set.
	MongoURI string

	JWTSecret string
}

// Load reads configuration from the environment.
func Load() *Config {
	// Missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		BookDir:     getEnv("BOOK_DIR", "books"),
		Language:    getEnv("SPEECH_LANGUAGE", "en-US"),
		TTSProvider: getEnv("TTS_PROVIDER", "google"),
		MongoURI:    os.Getenv("MONGODB_URI"),
		JWTSecret:   getEnv("JWT_SECRET", "development-secret-change-me"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
