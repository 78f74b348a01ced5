package mongodb

import (
	"context"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure DealRepository implements the interface
var _ repositories.DealRepository = (*DealRepository)(nil)

// DealRepository handles MongoDB operations for Deal
type DealRepository struct {
	collection *mongo.Collection
}

// NewDealRepository creates a new DealRepository
func NewDealRepository(db *mongo.Database) *DealRepository {
	return &DealRepository{
		collection: db.Collection("deals"),
	}
}

// Create inserts a new deal
func (r *DealRepository) Create(ctx context.Context, deal *models.Deal) error {
	deal.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, deal)
	return err
}

// FindByID finds a deal by ID
func (r *DealRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error) {
	var deal models.Deal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&deal)
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// FindByUserID finds all deals owned by a user with pagination
func (r *DealRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Deal, error) {
	return r.find(ctx, bson.M{"userId": userID}, paginate(page, limit).SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// FindByStatus finds deals by status with pagination
func (r *DealRepository) FindByStatus(ctx context.Context, status models.DealStatus, page, limit int) ([]*models.Deal, error) {
	return r.find(ctx, bson.M{"status": status}, paginate(page, limit).SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// FindApproved returns every approved deal, used by the recalculation job
func (r *DealRepository) FindApproved(ctx context.Context) ([]*models.Deal, error) {
	return r.find(ctx, bson.M{"status": models.DealStatusApproved}, nil)
}

// FindNonApprovedWithPoints returns deals that are not approved but still
// carry a non-zero point award — the consistency-repair set for recalculation.
func (r *DealRepository) FindNonApprovedWithPoints(ctx context.Context) ([]*models.Deal, error) {
	filter := bson.M{
		"status":       bson.M{"$ne": models.DealStatusApproved},
		"pointsEarned": bson.M{"$gt": 0},
	}
	return r.find(ctx, filter, nil)
}

// FindApprovedByDateRange returns approved deals closed within [start, end)
func (r *DealRepository) FindApprovedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Deal, error) {
	filter := bson.M{
		"status":    models.DealStatusApproved,
		"closeDate": bson.M{"$gte": start, "$lt": end},
	}
	return r.find(ctx, filter, nil)
}

// ApproveIfPending transitions a deal to APPROVED with its computed points.
// The filter matches only while the deal is still PENDING, so a concurrent
// or repeated approval finds no document and returns mongo.ErrNoDocuments.
func (r *DealRepository) ApproveIfPending(ctx context.Context, id primitive.ObjectID, points int, approvedBy string, approvedAt time.Time) (*models.Deal, error) {
	filter := bson.M{"_id": id, "status": models.DealStatusPending}
	update := bson.M{"$set": bson.M{
		"status":       models.DealStatusApproved,
		"pointsEarned": points,
		"approvedBy":   approvedBy,
		"approvedAt":   approvedAt,
		"updatedAt":    time.Now(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// RejectIfPending transitions a deal to REJECTED, guarded the same way
func (r *DealRepository) RejectIfPending(ctx context.Context, id primitive.ObjectID, rejectedBy string) (*models.Deal, error) {
	filter := bson.M{"_id": id, "status": models.DealStatusPending}
	update := bson.M{"$set": bson.M{
		"status":     models.DealStatusRejected,
		"approvedBy": rejectedBy,
		"updatedAt":  time.Now(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// UpdatePoints rewrites pointsEarned without touching the status. Only the
// recalculation job calls this.
func (r *DealRepository) UpdatePoints(ctx context.Context, id primitive.ObjectID, points int) error {
	update := bson.M{"$set": bson.M{"pointsEarned": points, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// CountByUserID counts all deals owned by a user
func (r *DealRepository) CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// CountByUserIDAndStatus counts a user's deals in one status
func (r *DealRepository) CountByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status models.DealStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "status": status})
}

// DeleteByUserID removes all of a user's deals, for the account-deletion cascade
func (r *DealRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *DealRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Deal, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var deals []*models.Deal
	if err = cursor.All(ctx, &deals); err != nil {
		return nil, err
	}
	if deals == nil {
		deals = []*models.Deal{}
	}
	return deals, nil
}

func (r *DealRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Deal, error) {
	var deal models.Deal
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&deal)
	if err != nil {
		return nil, err
	}
	return &deal, nil
}
