package repositories

import (
	"context"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transactor runs a function inside a single unit of work. Every
// state-transition that pairs a status update with a ledger write goes
// through this so an aborted operation never leaves a half-applied state.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	FindByStatus(ctx context.Context, status models.UserStatus, page, limit int) ([]*models.User, error)
	FindIDsByCountry(ctx context.Context, country string) ([]primitive.ObjectID, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// DealRepository defines the interface for deal data operations
type DealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Deal, error)
	FindByStatus(ctx context.Context, status models.DealStatus, page, limit int) ([]*models.Deal, error)
	FindApproved(ctx context.Context) ([]*models.Deal, error)
	FindNonApprovedWithPoints(ctx context.Context) ([]*models.Deal, error)
	FindApprovedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Deal, error)
	// ApproveIfPending performs the status-guarded transition: the update
	// matches only while status is still PENDING, so a second approval of
	// the same deal cannot double-award points.
	ApproveIfPending(ctx context.Context, id primitive.ObjectID, points int, approvedBy string, approvedAt time.Time) (*models.Deal, error)
	RejectIfPending(ctx context.Context, id primitive.ObjectID, rejectedBy string) (*models.Deal, error)
	UpdatePoints(ctx context.Context, id primitive.ObjectID, points int) error
	CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status models.DealStatus) (int64, error)
	// DeleteByUserID removes every deal owned by a user, as part of the
	// account-deletion cascade.
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// PointsHistoryRepository defines the interface for the append-only ledger.
// There is deliberately no update operation: corrections are delete-then-
// insert keyed by deal ID, and the only other delete is the account-deletion
// cascade keyed by user ID.
type PointsHistoryRepository interface {
	Create(ctx context.Context, entry *models.PointsHistory) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointsHistory, error)
	FindByDealID(ctx context.Context, dealID primitive.ObjectID) ([]*models.PointsHistory, error)
	DeleteByDealID(ctx context.Context, dealID primitive.ObjectID) (int64, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
	// SumByUserID returns the raw signed sum of all entries for a user
	SumByUserID(ctx context.Context, userID primitive.ObjectID) (int, error)
	// SumEarnedByUserID returns the sum of positive entries only (lifetime points)
	SumEarnedByUserID(ctx context.Context, userID primitive.ObjectID) (int, error)
	SumEarnedByUserBetween(ctx context.Context, start, end time.Time) (map[primitive.ObjectID]int, error)
	TopEarners(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// RewardRepository defines the interface for reward catalog operations
type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error)
	FindAll(ctx context.Context, activeOnly bool, page, limit int) ([]*models.Reward, error)
	Update(ctx context.Context, reward *models.Reward) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRewardRepository defines the interface for redemption data operations
type UserRewardRepository interface {
	Create(ctx context.Context, userReward *models.UserReward) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserReward, error)
	FindPendingByUserAndReward(ctx context.Context, userID, rewardID primitive.ObjectID) (*models.UserReward, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.UserReward, error)
	FindByStatus(ctx context.Context, status models.RedemptionStatus, page, limit int) ([]*models.UserReward, error)
	ApproveIfPending(ctx context.Context, id primitive.ObjectID, approvedBy string, approvedAt time.Time) (*models.UserReward, error)
	RejectIfPending(ctx context.Context, id primitive.ObjectID, rejectedBy, reason string) (*models.UserReward, error)
	// UpdateShipment advances the shipment sub-state with the same guarded
	// pattern as the approvals: the filter requires the redemption to still be
	// APPROVED and the shipment sub-state to still equal from, so a concurrent
	// stale write finds no document instead of regressing the state.
	UpdateShipment(ctx context.Context, id primitive.ObjectID, from, to models.ShipmentStatus, at time.Time) (*models.UserReward, error)
	CountByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status models.RedemptionStatus) (int64, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// RateConfigRepository defines the interface for the conversion rate table
type RateConfigRepository interface {
	// Get returns the live config, seeding the defaults if none exists yet
	Get(ctx context.Context) (*models.RateConfig, error)
	Update(ctx context.Context, config *models.RateConfig) error
}

// DrawRepository defines the interface for monthly draw records
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByMonth(ctx context.Context, month string) (*models.Draw, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Draw, error)
}
