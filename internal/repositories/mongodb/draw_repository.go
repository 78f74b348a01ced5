package mongodb

import (
	"context"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure DrawRepository implements the interface
var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository handles MongoDB operations for monthly draws
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) *DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// Create inserts a new draw record
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	draw.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, draw)
	return err
}

// FindByMonth finds the draw executed for a given YYYY-MM month
func (r *DrawRepository) FindByMonth(ctx context.Context, month string) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"month": month}).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindAll finds draw records with pagination, newest first
func (r *DrawRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Draw, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		paginate(page, limit).SetSort(bson.D{{Key: "executedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err = cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.Draw{}
	}
	return draws, nil
}
