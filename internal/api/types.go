package api

import (
	"time"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/usecase"
)

// AnswerResponse is the payload returned for a successfully answered question.
type AnswerResponse struct {
	Success  bool   `json:"success"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AudioURL string `json:"audio_url,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse describes the current library state.
type StatusResponse struct {
	BookLoaded bool                `json:"book_loaded"`
	Title      string              `json:"title,omitempty"`
	Books      []BookInfo          `json:"books"`
	Recordings []usecase.Recording `json:"recordings"`
}

// BookInfo describes one stored book.
type BookInfo struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Current  bool   `json:"current"`
}

// AuthRequest represents the request payload for listener authentication
type AuthRequest struct {
	ClientID string `json:"client_id"`
}

// AuthResponse represents the response payload for listener authentication
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ClientID  string    `json:"client_id"`
}
