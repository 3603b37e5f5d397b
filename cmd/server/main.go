package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/adapters/llm"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/adapters/memory"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/adapters/mongo"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/adapters/storage"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/adapters/stt"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/adapters/tts"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/internal/api"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/internal/auth"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/internal/config"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/internal/ws"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("32M"))

	store, err := storage.NewLocalFileStore(cfg.UploadDir, cfg.BookDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	speechToText := newSpeechToText(logger)
	textToSpeech := newTextToSpeech(cfg, logger)
	answerer := newAnswerer(logger)
	exchanges, mongoClient := newExchangeRepository(cfg, logger)

	// Initialize usecase services
	library := usecase.NewLibraryService(store, logger)

	// Initialize WebSocket hub for processing progress
	hub := ws.NewHub(logger)
	go hub.Run()

	questions := usecase.NewQuestionService(
		library, speechToText, answerer, textToSpeech,
		store, exchanges, hub, cfg.Language, logger)

	// Initialize API routes
	api.InitRoutes(e, &api.Handlers{
		Library:   library,
		Questions: questions,
		Store:     store,
		Hub:       hub,
		Auth:      auth.NewTokenIssuer(cfg.JWTSecret),
		StaticDir: "static",
		Logger:    logger,
	})

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			logger.Warn("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// newSpeechToText uses Google Cloud Speech when credentials are
// present, otherwise the mock.
func newSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		logger.Info("Using Google Cloud Speech-to-Text")
		return &stt.GoogleSpeechToText{}
	}
	logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using mock speech-to-text")
	return stt.NewMockSpeechToText(logger)
}

func newTextToSpeech(cfg *config.Config, logger *zap.Logger) repositories.TextToSpeech {
	switch cfg.TTSProvider {
	case "elevenlabs":
		client, err := tts.NewElevenLabsTTS(tts.NewElevenLabsConfigFromEnv(), logger)
		if err != nil {
			logger.Warn("ElevenLabs unavailable, using mock text-to-speech", zap.Error(err))
			return tts.NewMockTextToSpeech(logger)
		}
		logger.Info("Using ElevenLabs text-to-speech")
		return client
	case "google":
		if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
			logger.Info("Using Google Cloud Text-to-Speech")
			return tts.NewGoogleTextToSpeech(cfg.Language, logger)
		}
	}
	logger.Warn("No text-to-speech credentials, using mock")
	return tts.NewMockTextToSpeech(logger)
}

func newAnswerer(logger *zap.Logger) repositories.BookAnswerer {
	answerer, err := llm.NewGeminiAnswerer(logger)
	if err != nil {
		logger.Warn("Gemini unavailable, using mock answerer", zap.Error(err))
		return llm.NewMockAnswerer(logger)
	}
	logger.Info("Using Gemini book answerer")
	return answerer
}

// newExchangeRepository prefers MongoDB when configured, falling back
// to the in-memory store.
func newExchangeRepository(cfg *config.Config, logger *zap.Logger) (repositories.ExchangeRepository, *mongo.Client) {
	if cfg.MongoURI == "" {
		logger.Info("MONGODB_URI not set, keeping exchange history in memory")
		return memory.NewExchangeRepository(), nil
	}
	client, err := mongo.NewClient(logger)
	if err != nil {
		logger.Warn("MongoDB unavailable, keeping exchange history in memory", zap.Error(err))
		return memory.NewExchangeRepository(), nil
	}
	return mongo.NewExchangeRepository(client.Database), client
}
