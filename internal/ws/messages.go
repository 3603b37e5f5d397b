package ws

import (
	"encoding/json"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeProcessingStatus MessageType = "processing_status"
	MessageTypePing             MessageType = "ping"
	MessageTypePong             MessageType = "pong"
	MessageTypeError            MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp"`
}

// StatusMessage reports the pipeline stage of the question being processed.
type StatusMessage struct {
	BaseMessage
	Stage  string `json:"stage"`
	Detail string `json:"detail,omitempty"`
}

// ErrorMessage represents an error pushed to listeners.
type ErrorMessage struct {
	BaseMessage
	Message string `json:"message"`
}

// NewStatusMessage creates a status message for the given stage.
func NewStatusMessage(stage, detail string) *StatusMessage {
	return &StatusMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeProcessingStatus,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Stage:  stage,
		Detail: detail,
	}
}

// Marshal serializes a message to JSON.
func Marshal(msg interface{}) ([]byte, error) {
	return json.Marshal(msg)
}
