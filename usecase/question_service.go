package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// Errors the HTTP layer maps to client-facing responses.
var (
	// ErrNoBookLoaded is returned when a question arrives before any book.
	ErrNoBookLoaded = errors.New("no book loaded")
	// ErrEmptyQuestion is returned when transcription produces no text.
	ErrEmptyQuestion = errors.New("could not understand the question")
)

// Processing stages broadcast while a question is in flight.
const (
	StageReceived     = "received"
	StageTranscribing = "transcribing"
	StageAnswering    = "answering"
	StageSynthesizing = "synthesizing"
	StageComplete     = "complete"
	StageFailed       = "failed"
)

// ProgressNotifier receives stage updates for an in-flight question.
type ProgressNotifier interface {
	NotifyStage(stage string, detail string)
}

// NopNotifier discards progress updates.
type NopNotifier struct{}

func (NopNotifier) NotifyStage(string, string) {}

// QuestionService orchestrates one question/answer cycle: store the
// uploaded audio, transcribe it, answer it against the current book,
// synthesize the spoken answer and record the exchange.
type QuestionService struct {
	library      *LibraryService
	speechToText repositories.SpeechToText
	answerer     repositories.BookAnswerer
	textToSpeech repositories.TextToSpeech
	store        repositories.FileStore
	exchanges    repositories.ExchangeRepository
	notifier     ProgressNotifier
	language     string
	logger       *zap.Logger

	now func() time.Time
}

// NewQuestionService creates a new question service
func NewQuestionService(
	library *LibraryService,
	stt repositories.SpeechToText,
	answerer repositories.BookAnswerer,
	tts repositories.TextToSpeech,
	store repositories.FileStore,
	exchanges repositories.ExchangeRepository,
	notifier ProgressNotifier,
	language string,
	logger *zap.Logger,
) *QuestionService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if language == "" {
		language = "en-US"
	}
	return &QuestionService{
		library:      library,
		speechToText: stt,
		answerer:     answerer,
		textToSpeech: tts,
		store:        store,
		exchanges:    exchanges,
		notifier:     notifier,
		language:     language,
		logger:       logger,
		now:          time.Now,
	}
}

// ProcessQuestion handles one uploaded question recording.
func (s *QuestionService) ProcessQuestion(ctx context.Context, audio []byte) (*entities.AnswerResult, error) {
	book, ok := s.library.CurrentBook()
	if !ok {
		s.logger.Warn("Question received with no book loaded")
		return nil, ErrNoBookLoaded
	}

	name := s.now().Format("20060102-150405") + ".wav"
	if err := s.store.SaveRecording(name, audio); err != nil {
		return nil, fmt.Errorf("failed to save question audio: %w", err)
	}
	s.notifier.NotifyStage(StageReceived, name)
	s.logger.Info("Question audio saved", zap.String("filename", name))

	exchange := entities.NewExchange(book.Filename, name)
	if err := s.exchanges.Create(ctx, exchange); err != nil {
		// History is best effort; the answer flow continues without it.
		s.logger.Warn("Failed to record exchange", zap.Error(err))
		exchange = nil
	}

	result, err := s.answer(ctx, book, exchange, name, audio)
	if err != nil {
		s.notifier.NotifyStage(StageFailed, err.Error())
		if exchange != nil {
			exchange.Fail()
			if uerr := s.exchanges.Update(ctx, exchange); uerr != nil {
				s.logger.Warn("Failed to mark exchange failed", zap.Error(uerr))
			}
		}
		return nil, err
	}

	s.notifier.NotifyStage(StageComplete, result.Question)
	return result, nil
}

func (s *QuestionService) answer(
	ctx context.Context,
	book *entities.Book,
	exchange *entities.Exchange,
	name string,
	audio []byte,
) (*entities.AnswerResult, error) {
	s.notifier.NotifyStage(StageTranscribing, name)
	question, err := s.speechToText.TranscribeAudio(ctx, audio, repositories.AudioConfig{
		Encoding: "WAV",
		Language: s.language,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if strings.TrimSpace(question) == "" {
		s.logger.Warn("Could not transcribe question", zap.String("filename", name))
		return nil, ErrEmptyQuestion
	}
	s.logger.Info("Question transcribed", zap.String("question", question))

	s.notifier.NotifyStage(StageAnswering, question)
	pdf, err := s.store.ReadBook(book.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read current book: %w", err)
	}
	answer, err := s.answerer.AnswerQuestion(ctx, book, pdf, question)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}
	s.logger.Info("Answer generated", zap.Int("answerLength", len(answer)))

	s.notifier.NotifyStage(StageSynthesizing, name)
	responseName := ""
	speech, err := s.textToSpeech.SynthesizeSpeech(ctx, answer)
	if err != nil {
		// The textual answer is still useful without the spoken one.
		s.logger.Warn("Speech synthesis failed", zap.Error(err))
	} else {
		responseName = strings.TrimSuffix(name, ".wav") + "-response.mp3"
		if err := s.store.SaveRecording(responseName, speech); err != nil {
			s.logger.Warn("Failed to save answer audio", zap.Error(err))
			responseName = ""
		}
	}

	final := entities.NewExchange(book.Filename, name)
	if exchange != nil {
		final = exchange
	}
	final.Complete(question, answer, responseName)

	transcriptName := strings.TrimSuffix(name, ".wav") + ".txt"
	if err := s.store.SaveTranscript(transcriptName, final.Transcript()); err != nil {
		s.logger.Warn("Failed to save transcript", zap.Error(err))
	}

	if exchange != nil {
		if err := s.exchanges.Update(ctx, exchange); err != nil {
			s.logger.Warn("Failed to update exchange", zap.Error(err))
		}
	}

	result := final.Result()
	return &result, nil
}

// RecentExchanges returns the latest question/answer exchanges.
func (s *QuestionService) RecentExchanges(ctx context.Context, limit int) ([]*entities.Exchange, error) {
	return s.exchanges.GetRecent(ctx, limit)
}
