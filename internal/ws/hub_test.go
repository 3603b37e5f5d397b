package ws

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHub_NewHub(t *testing.T) {
	hub := NewHub(zap.NewNop())

	if hub.clients == nil {
		t.Error("Hub clients map not initialized")
	}
	if hub.register == nil {
		t.Error("Hub register channel not initialized")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel not initialized")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel not initialized")
	}
}

func TestHub_NotifyStageBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{
		hub:      hub,
		send:     make(chan []byte, 8),
		clientID: "listener-1",
		logger:   zap.NewNop(),
	}
	hub.register <- client

	deadline := time.After(time.Second)
	for hub.ListenerCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("Listener never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	hub.NotifyStage("transcribing", "20240101-120000.wav")

	select {
	case payload := <-client.send:
		var msg StatusMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("Failed to decode status message: %v", err)
		}
		if msg.Type != MessageTypeProcessingStatus {
			t.Errorf("Expected type %s, got %s", MessageTypeProcessingStatus, msg.Type)
		}
		if msg.Stage != "transcribing" {
			t.Errorf("Expected stage transcribing, got %s", msg.Stage)
		}
		if msg.Detail != "20240101-120000.wav" {
			t.Errorf("Unexpected detail: %s", msg.Detail)
		}
	case <-time.After(time.Second):
		t.Fatal("No status message received")
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := &Client{
		hub:      hub,
		send:     make(chan []byte, 8),
		clientID: "listener-1",
		logger:   zap.NewNop(),
	}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("Send channel never closed")
	}

	if hub.ListenerCount() != 0 {
		t.Errorf("Expected 0 listeners, got %d", hub.ListenerCount())
	}
}
