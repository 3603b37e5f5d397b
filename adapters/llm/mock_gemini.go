package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// MockAnswerer is a placeholder book answerer used when no Gemini API key
// is configured.
type MockAnswerer struct {
	logger *zap.Logger
}

// NewMockAnswerer creates a new mock answerer
func NewMockAnswerer(logger *zap.Logger) repositories.BookAnswerer {
	return &MockAnswerer{logger: logger}
}

// AnswerQuestion implements repositories.BookAnswerer
func (m *MockAnswerer) AnswerQuestion(ctx context.Context, book *entities.Book, pdf []byte, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("question cannot be empty")
	}

	m.logger.Info("Mock answer generation",
		zap.String("book", book.Filename),
		zap.String("question", question))

	return fmt.Sprintf("According to %s, the relevant passage addresses your question about %q.",
		book.Title, question), nil
}
