package memory

import (
	"context"
	"testing"
	"time"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
)

func TestCreateAssignsID(t *testing.T) {
	repo := NewExchangeRepository()
	ex := entities.NewExchange("book.pdf", "q.wav")

	if err := repo.Create(context.Background(), ex); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ex.ID == "" {
		t.Error("Expected Create to assign an ID")
	}
}

func TestCreateValidates(t *testing.T) {
	repo := NewExchangeRepository()

	if err := repo.Create(context.Background(), nil); err == nil {
		t.Error("Expected error for nil exchange")
	}

	bad := entities.NewExchange("", "q.wav")
	if err := repo.Create(context.Background(), bad); err == nil {
		t.Error("Expected validation error for exchange without book")
	}
}

func TestUpdate(t *testing.T) {
	repo := NewExchangeRepository()
	ex := entities.NewExchange("book.pdf", "q.wav")
	if err := repo.Create(context.Background(), ex); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ex.Complete("Q", "A", "q-response.mp3")
	if err := repo.Update(context.Background(), ex); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	missing := entities.NewExchange("book.pdf", "other.wav")
	missing.ID = "does-not-exist"
	if err := repo.Update(context.Background(), missing); err == nil {
		t.Error("Expected error updating unknown exchange")
	}
}

func TestGetRecentOrdersAndLimits(t *testing.T) {
	repo := NewExchangeRepository()

	base := time.Now()
	for i := 0; i < 5; i++ {
		ex := entities.NewExchange("book.pdf", "q.wav")
		ex.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(context.Background(), ex); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	recent, err := repo.GetRecent(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 exchanges, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Error("Expected exchanges sorted newest first")
		}
	}
}
