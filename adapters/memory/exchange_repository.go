package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// ExchangeRepository is an in-memory implementation of ExchangeRepository,
// used when no MongoDB is configured. History does not survive a restart.
type ExchangeRepository struct {
	mu        sync.RWMutex
	exchanges map[string]*entities.Exchange
}

var _ repositories.ExchangeRepository = (*ExchangeRepository)(nil)

// NewExchangeRepository creates a new in-memory exchange repository
func NewExchangeRepository() *ExchangeRepository {
	return &ExchangeRepository{
		exchanges: make(map[string]*entities.Exchange),
	}
}

// Create implements repositories.ExchangeRepository
func (r *ExchangeRepository) Create(ctx context.Context, exchange *entities.Exchange) error {
	if exchange == nil {
		return errors.New("exchange cannot be nil")
	}
	if err := exchange.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if exchange.ID == "" {
		exchange.ID = uuid.New().String()
	}
	stored := *exchange
	r.exchanges[exchange.ID] = &stored
	return nil
}

// Update implements repositories.ExchangeRepository
func (r *ExchangeRepository) Update(ctx context.Context, exchange *entities.Exchange) error {
	if exchange == nil {
		return errors.New("exchange cannot be nil")
	}
	if exchange.ID == "" {
		return errors.New("exchange ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exchanges[exchange.ID]; !ok {
		return errors.New("exchange not found: " + exchange.ID)
	}
	stored := *exchange
	r.exchanges[exchange.ID] = &stored
	return nil
}

// GetRecent implements repositories.ExchangeRepository
func (r *ExchangeRepository) GetRecent(ctx context.Context, limit int) ([]*entities.Exchange, error) {
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*entities.Exchange, 0, len(r.exchanges))
	for _, ex := range r.exchanges {
		copied := *ex
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
