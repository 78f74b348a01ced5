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

// Compile-time check to ensure UserRewardRepository implements the interface
var _ repositories.UserRewardRepository = (*UserRewardRepository)(nil)

// UserRewardRepository handles MongoDB operations for redemption requests
type UserRewardRepository struct {
	collection *mongo.Collection
}

// NewUserRewardRepository creates a new UserRewardRepository
func NewUserRewardRepository(db *mongo.Database) *UserRewardRepository {
	return &UserRewardRepository{
		collection: db.Collection("user_rewards"),
	}
}

// Create inserts a new redemption request
func (r *UserRewardRepository) Create(ctx context.Context, userReward *models.UserReward) error {
	userReward.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, userReward)
	return err
}

// FindByID finds a redemption by ID
func (r *UserRewardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserReward, error) {
	var userReward models.UserReward
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&userReward)
	if err != nil {
		return nil, err
	}
	return &userReward, nil
}

// FindPendingByUserAndReward finds an outstanding pending redemption for a
// (user, reward) pair, used to enforce the one-pending-request invariant.
func (r *UserRewardRepository) FindPendingByUserAndReward(ctx context.Context, userID, rewardID primitive.ObjectID) (*models.UserReward, error) {
	filter := bson.M{
		"userId":   userID,
		"rewardId": rewardID,
		"status":   models.RedemptionStatusPending,
	}
	var userReward models.UserReward
	err := r.collection.FindOne(ctx, filter).Decode(&userReward)
	if err != nil {
		return nil, err
	}
	return &userReward, nil
}

// FindByUserID finds a user's redemptions with pagination
func (r *UserRewardRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.UserReward, error) {
	return r.find(ctx, bson.M{"userId": userID}, page, limit)
}

// FindByStatus finds redemptions by status with pagination
func (r *UserRewardRepository) FindByStatus(ctx context.Context, status models.RedemptionStatus, page, limit int) ([]*models.UserReward, error) {
	return r.find(ctx, bson.M{"status": status}, page, limit)
}

// ApproveIfPending transitions a redemption to APPROVED with the shipment
// sub-state initialised. The filter matches only while still PENDING.
func (r *UserRewardRepository) ApproveIfPending(ctx context.Context, id primitive.ObjectID, approvedBy string, approvedAt time.Time) (*models.UserReward, error) {
	filter := bson.M{"_id": id, "status": models.RedemptionStatusPending}
	update := bson.M{"$set": bson.M{
		"status":         models.RedemptionStatusApproved,
		"shipmentStatus": models.ShipmentStatusPending,
		"approvedBy":     approvedBy,
		"approvedAt":     approvedAt,
		"updatedAt":      time.Now(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// RejectIfPending transitions a redemption to REJECTED, guarded the same way
func (r *UserRewardRepository) RejectIfPending(ctx context.Context, id primitive.ObjectID, rejectedBy, reason string) (*models.UserReward, error) {
	filter := bson.M{"_id": id, "status": models.RedemptionStatusPending}
	update := bson.M{"$set": bson.M{
		"status":          models.RedemptionStatusRejected,
		"approvedBy":      rejectedBy,
		"rejectionReason": reason,
		"updatedAt":       time.Now(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// UpdateShipment sets the shipment sub-state and its timestamp. The filter
// requires both an approved redemption and the expected current sub-state, so
// a write based on a stale read finds no document instead of moving the
// shipment backwards.
func (r *UserRewardRepository) UpdateShipment(ctx context.Context, id primitive.ObjectID, from, to models.ShipmentStatus, at time.Time) (*models.UserReward, error) {
	set := bson.M{
		"shipmentStatus": to,
		"updatedAt":      time.Now(),
	}
	switch to {
	case models.ShipmentStatusShipped:
		set["shippedAt"] = at
	case models.ShipmentStatusDelivered:
		set["deliveredAt"] = at
	}
	filter := bson.M{
		"_id":            id,
		"status":         models.RedemptionStatusApproved,
		"shipmentStatus": from,
	}
	return r.findOneAndUpdate(ctx, filter, bson.M{"$set": set})
}

// CountByUserIDAndStatus counts a user's redemptions in one status
func (r *UserRewardRepository) CountByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status models.RedemptionStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "status": status})
}

// DeleteByUserID removes all of a user's redemptions, for the account-deletion cascade
func (r *UserRewardRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *UserRewardRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.UserReward, error) {
	cursor, err := r.collection.Find(ctx, filter,
		paginate(page, limit).SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var userRewards []*models.UserReward
	if err = cursor.All(ctx, &userRewards); err != nil {
		return nil, err
	}
	if userRewards == nil {
		userRewards = []*models.UserReward{}
	}
	return userRewards, nil
}

func (r *UserRewardRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.UserReward, error) {
	var userReward models.UserReward
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&userReward)
	if err != nil {
		return nil, err
	}
	return &userReward, nil
}
