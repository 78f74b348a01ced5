package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure RateConfigRepository implements the interface
var _ repositories.RateConfigRepository = (*RateConfigRepository)(nil)

// RateConfigRepository handles MongoDB operations for the conversion rate
// table. There is exactly one live document in the collection.
type RateConfigRepository struct {
	collection *mongo.Collection
}

// NewRateConfigRepository creates a new RateConfigRepository
func NewRateConfigRepository(db *mongo.Database) *RateConfigRepository {
	return &RateConfigRepository{
		collection: db.Collection("rate_config"),
	}
}

// Get returns the live rate config, seeding the defaults on first use
func (r *RateConfigRepository) Get(ctx context.Context) (*models.RateConfig, error) {
	var config models.RateConfig
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&config)
	if err == nil {
		return &config, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	seed := models.DefaultRateConfig()
	seed.ID = primitive.NewObjectID()
	seed.CreatedAt = time.Now()
	seed.UpdatedAt = seed.CreatedAt
	if _, err := r.collection.InsertOne(ctx, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// Update mutates the live config in place
func (r *RateConfigRepository) Update(ctx context.Context, config *models.RateConfig) error {
	config.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": config.ID}, config)
	return err
}
