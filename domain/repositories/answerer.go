package repositories

import (
	"context"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
)

// BookAnswerer abstracts the external service that answers a question
// about a book. The book content is interpreted by the service itself;
// implementations hand it the raw PDF alongside the question.
type BookAnswerer interface {
	AnswerQuestion(ctx context.Context, book *entities.Book, pdf []byte, question string) (string, error)
}
