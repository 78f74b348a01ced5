package mongodb

import (
	"context"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure PointsHistoryRepository implements the interface
var _ repositories.PointsHistoryRepository = (*PointsHistoryRepository)(nil)

// PointsHistoryRepository handles MongoDB operations for the points ledger.
// Entries are append-only; the only destructive operation is DeleteByDealID,
// which the recalculation job pairs with a fresh insert inside a transaction.
type PointsHistoryRepository struct {
	collection *mongo.Collection
}

// NewPointsHistoryRepository creates a new PointsHistoryRepository
func NewPointsHistoryRepository(db *mongo.Database) *PointsHistoryRepository {
	return &PointsHistoryRepository{
		collection: db.Collection("points_history"),
	}
}

// Create inserts a new ledger entry
func (r *PointsHistoryRepository) Create(ctx context.Context, entry *models.PointsHistory) error {
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByUserID finds all ledger entries for a user with pagination
func (r *PointsHistoryRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointsHistory, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		paginate(page, limit).SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.PointsHistory
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.PointsHistory{}
	}
	return entries, nil
}

// FindByDealID finds the ledger entries tied to one deal
func (r *PointsHistoryRepository) FindByDealID(ctx context.Context, dealID primitive.ObjectID) ([]*models.PointsHistory, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"dealId": dealID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.PointsHistory
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.PointsHistory{}
	}
	return entries, nil
}

// DeleteByDealID removes every entry tied to a deal and returns the count
func (r *PointsHistoryRepository) DeleteByDealID(ctx context.Context, dealID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"dealId": dealID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteByUserID removes every entry owned by a user. This is the only path
// that deletes ledger entries outside the per-deal correction, and it exists
// solely for the account-deletion cascade.
func (r *PointsHistoryRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// SumByUserID returns the raw signed sum of all entries for a user
func (r *PointsHistoryRepository) SumByUserID(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return r.sum(ctx, bson.M{"userId": userID})
}

// SumEarnedByUserID returns the sum of positive entries only
func (r *PointsHistoryRepository) SumEarnedByUserID(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return r.sum(ctx, bson.M{"userId": userID, "points": bson.M{"$gt": 0}})
}

func (r *PointsHistoryRepository) sum(ctx context.Context, match bson.M) (int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$points"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// SumEarnedByUserBetween aggregates positive points per user within a time
// window, used to build the monthly draw candidate pool.
func (r *PointsHistoryRepository) SumEarnedByUserBetween(ctx context.Context, start, end time.Time) (map[primitive.ObjectID]int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"points":    bson.M{"$gt": 0},
			"createdAt": bson.M{"$gte": start, "$lt": end},
		}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$userId", "totalPoints": bson.M{"$sum": "$points"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.LeaderboardEntry
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	totals := make(map[primitive.ObjectID]int, len(rows))
	for _, row := range rows {
		totals[row.UserID] = row.TotalPoints
	}
	return totals, nil
}

// TopEarners returns the top-N users by lifetime positive points
func (r *PointsHistoryRepository) TopEarners(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit < 1 {
		limit = 10
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"points": bson.M{"$gt": 0}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$userId", "totalPoints": bson.M{"$sum": "$points"}}}},
		bson.D{{Key: "$sort", Value: bson.M{"totalPoints": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.LeaderboardEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}
	return entries, nil
}
