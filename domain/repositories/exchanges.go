package repositories

import (
	"context"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
)

// ExchangeRepository defines data access methods for question/answer exchanges
type ExchangeRepository interface {
	Create(ctx context.Context, exchange *entities.Exchange) error
	Update(ctx context.Context, exchange *entities.Exchange) error
	GetRecent(ctx context.Context, limit int) ([]*entities.Exchange, error)
}
