package entities

import (
	"errors"
	"strings"
	"time"
)

// ExchangeStatus represents the processing status of an exchange
type ExchangeStatus string

const (
	ExchangeStatusPending   ExchangeStatus = "pending"
	ExchangeStatusCompleted ExchangeStatus = "completed"
	ExchangeStatusFailed    ExchangeStatus = "failed"
)

// Exchange represents one question/answer cycle: the uploaded question audio,
// its transcript, the generated answer and the synthesized answer audio.
type Exchange struct {
	ID            string         `json:"id" bson:"_id,omitempty"`
	BookFilename  string         `json:"book_filename" bson:"book_filename"`
	Question      string         `json:"question" bson:"question"`
	Answer        string         `json:"answer" bson:"answer"`
	AudioFile     string         `json:"audio_file" bson:"audio_file"`
	ResponseAudio string         `json:"response_audio,omitempty" bson:"response_audio,omitempty"`
	Status        ExchangeStatus `json:"status" bson:"status"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// NewExchange creates a pending exchange for an uploaded question recording.
func NewExchange(bookFilename, audioFile string) *Exchange {
	return &Exchange{
		BookFilename: bookFilename,
		AudioFile:    audioFile,
		Status:       ExchangeStatusPending,
		CreatedAt:    time.Now(),
	}
}

// Complete records the transcript, answer and answer audio of the exchange.
func (e *Exchange) Complete(question, answer, responseAudio string) {
	now := time.Now()
	e.Question = question
	e.Answer = answer
	e.ResponseAudio = responseAudio
	e.Status = ExchangeStatusCompleted
	e.CompletedAt = &now
}

// Fail marks the exchange as failed.
func (e *Exchange) Fail() {
	now := time.Now()
	e.Status = ExchangeStatusFailed
	e.CompletedAt = &now
}

// Result builds the response payload for a completed exchange.
func (e *Exchange) Result() AnswerResult {
	res := AnswerResult{
		Question: e.Question,
		Answer:   e.Answer,
	}
	if e.ResponseAudio != "" {
		res.AudioURL = "/uploads/" + e.ResponseAudio
	}
	return res
}

// Transcript renders the exchange as the stored transcript file content.
func (e *Exchange) Transcript() string {
	var b strings.Builder
	b.WriteString("Question:\n")
	b.WriteString(e.Question)
	b.WriteString("\n\nAnswer:\n")
	b.WriteString(e.Answer)
	b.WriteString("\n")
	return b.String()
}

// Validate validates the exchange data.
func (e *Exchange) Validate() error {
	if e.BookFilename == "" {
		return errors.New("book_filename is required")
	}
	if e.AudioFile == "" {
		return errors.New("audio_file is required")
	}
	switch e.Status {
	case ExchangeStatusPending, ExchangeStatusCompleted, ExchangeStatusFailed:
	default:
		return errors.New("invalid exchange status")
	}
	return nil
}

// AnswerResult is the payload returned to the client for an answered question.
type AnswerResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AudioURL string `json:"audio_url,omitempty"`
}
