package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// ExchangeRepository persists question/answer exchanges in MongoDB
type ExchangeRepository struct {
	collection *mongo.Collection
}

// NewExchangeRepository creates a new MongoDB exchange repository
func NewExchangeRepository(db *mongo.Database) repositories.ExchangeRepository {
	return &ExchangeRepository{
		collection: db.Collection("exchanges"),
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

	doc := bson.M{
		"book_filename":  exchange.BookFilename,
		"question":       exchange.Question,
		"answer":         exchange.Answer,
		"audio_file":     exchange.AudioFile,
		"response_audio": exchange.ResponseAudio,
		"status":         exchange.Status,
		"created_at":     exchange.CreatedAt,
		"completed_at":   exchange.CompletedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create exchange: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		exchange.ID = oid.Hex()
	}

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

	objectID, err := primitive.ObjectIDFromHex(exchange.ID)
	if err != nil {
		return fmt.Errorf("invalid exchange ID format: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"question":       exchange.Question,
			"answer":         exchange.Answer,
			"response_audio": exchange.ResponseAudio,
			"status":         exchange.Status,
			"completed_at":   exchange.CompletedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update exchange: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("exchange with ID %s not found", exchange.ID)
	}

	return nil
}

// GetRecent implements repositories.ExchangeRepository
func (r *ExchangeRepository) GetRecent(ctx context.Context, limit int) ([]*entities.Exchange, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer cursor.Close(ctx)

	var exchanges []*entities.Exchange
	for cursor.Next(ctx) {
		var doc exchangeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode exchange: %w", err)
		}
		exchanges = append(exchanges, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchanges: %w", err)
	}

	return exchanges, nil
}

// exchangeDocument mirrors the stored shape; the _id is an ObjectID there.
type exchangeDocument struct {
	ID            primitive.ObjectID      `bson:"_id"`
	BookFilename  string                  `bson:"book_filename"`
	Question      string                  `bson:"question"`
	Answer        string                  `bson:"answer"`
	AudioFile     string                  `bson:"audio_file"`
	ResponseAudio string                  `bson:"response_audio"`
	Status        entities.ExchangeStatus `bson:"status"`
	CreatedAt     time.Time               `bson:"created_at"`
	CompletedAt   *time.Time              `bson:"completed_at"`
}

func (d *exchangeDocument) toEntity() *entities.Exchange {
	return &entities.Exchange{
		ID:            d.ID.Hex(),
		BookFilename:  d.BookFilename,
		Question:      d.Question,
		Answer:        d.Answer,
		AudioFile:     d.AudioFile,
		ResponseAudio: d.ResponseAudio,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
		CompletedAt:   d.CompletedAt,
	}
}
