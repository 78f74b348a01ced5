package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/notifier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RedemptionServiceImpl implements RedemptionService
var _ RedemptionService = (*RedemptionServiceImpl)(nil)

// RedemptionServiceImpl owns the redemption approval state machine. Points
// are debited only on approval; the balance check at request time is
// advisory, so approval re-validates the live balance inside its transaction
// before writing the debit.
type RedemptionServiceImpl struct {
	userRewardRepo repositories.UserRewardRepository
	rewardRepo     repositories.RewardRepository
	userRepo       repositories.UserRepository
	pointsRepo     repositories.PointsHistoryRepository
	tx             repositories.Transactor
	notifier       notifier.Notifier
}

// NewRedemptionService creates a new RedemptionService
func NewRedemptionService(
	userRewardRepo repositories.UserRewardRepository,
	rewardRepo repositories.RewardRepository,
	userRepo repositories.UserRepository,
	pointsRepo repositories.PointsHistoryRepository,
	tx repositories.Transactor,
	n notifier.Notifier,
) *RedemptionServiceImpl {
	return &RedemptionServiceImpl{
		userRewardRepo: userRewardRepo,
		rewardRepo:     rewardRepo,
		userRepo:       userRepo,
		pointsRepo:     pointsRepo,
		tx:             tx,
		notifier:       n,
	}
}

// RequestRedemption creates a pending redemption after the duplicate and
// balance guards pass. The balance guard here is advisory only — points are
// not reserved until approval.
func (s *RedemptionServiceImpl) RequestRedemption(ctx context.Context, userID, rewardID primitive.ObjectID) (*models.UserReward, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account is not active", ErrInvalidState)
	}

	reward, err := s.rewardRepo.FindByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("reward %s: %w", rewardID.Hex(), ErrNotFound)
		}
		return nil, err
	}
	if !reward.IsActive {
		return nil, fmt.Errorf("%w: reward is not active", ErrInvalidState)
	}

	if _, err := s.userRewardRepo.FindPendingByUserAndReward(ctx, userID, rewardID); err == nil {
		return nil, fmt.Errorf("%w: a pending redemption for this reward already exists", ErrDuplicateRequest)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	balance, err := s.balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < reward.PointsCost {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, balance, reward.PointsCost)
	}

	now := time.Now()
	userReward := &models.UserReward{
		UserID:     userID,
		RewardID:   rewardID,
		Status:     models.RedemptionStatusPending,
		RedeemedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.userRewardRepo.Create(ctx, userReward); err != nil {
		return nil, fmt.Errorf("failed to create redemption: %w", err)
	}

	slog.Info("Redemption requested", "redemptionId", userReward.ID.Hex(), "userId", userID.Hex(), "rewardId", rewardID.Hex())
	s.notify(ctx, userID, notifier.EventRedemptionRequested, map[string]interface{}{
		"redemptionId": userReward.ID.Hex(),
		"reward":       reward.Name,
	})
	return userReward, nil
}

// GetRedemptionByID retrieves a redemption by ID
func (s *RedemptionServiceImpl) GetRedemptionByID(ctx context.Context, id primitive.ObjectID) (*models.UserReward, error) {
	userReward, err := s.userRewardRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("redemption %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return userReward, nil
}

// GetRedemptionsByUser retrieves a user's redemptions with pagination
func (s *RedemptionServiceImpl) GetRedemptionsByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.UserReward, error) {
	return s.userRewardRepo.FindByUserID(ctx, userID, page, limit)
}

// GetRedemptionsByStatus retrieves redemptions by status with pagination
func (s *RedemptionServiceImpl) GetRedemptionsByStatus(ctx context.Context, status models.RedemptionStatus, page, limit int) ([]*models.UserReward, error) {
	return s.userRewardRepo.FindByStatus(ctx, status, page, limit)
}

// ApproveRedemption transitions a pending redemption to APPROVED and debits
// exactly the reward's cost in one transaction. The balance is re-validated
// here because the request-time check is stale by now: several pending
// requests can jointly exceed a balance, and only the ones that still fit
// may be approved.
func (s *RedemptionServiceImpl) ApproveRedemption(ctx context.Context, id primitive.ObjectID, adminID string) (*models.UserReward, error) {
	userReward, err := s.GetRedemptionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userReward.Status != models.RedemptionStatusPending {
		return nil, fmt.Errorf("%w: redemption is %s", ErrInvalidState, userReward.Status)
	}

	reward, err := s.rewardRepo.FindByID(ctx, userReward.RewardID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("reward %s: %w", userReward.RewardID.Hex(), ErrNotFound)
		}
		return nil, err
	}

	var approved *models.UserReward
	now := time.Now()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.balance(ctx, userReward.UserID)
		if err != nil {
			return err
		}
		if balance < reward.PointsCost {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, balance, reward.PointsCost)
		}

		approved, err = s.userRewardRepo.ApproveIfPending(ctx, id, adminID, now)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("%w: redemption already decided", ErrInvalidState)
			}
			return err
		}

		rewardID := userReward.RewardID
		entry := &models.PointsHistory{
			UserID:      userReward.UserID,
			Points:      -reward.PointsCost,
			RewardID:    &rewardID,
			Description: fmt.Sprintf("Points redeemed for %q", reward.Name),
			CreatedAt:   now,
		}
		return s.pointsRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Redemption approved", "redemptionId", id.Hex(), "points", reward.PointsCost, "approvedBy", adminID)
	s.notify(ctx, userReward.UserID, notifier.EventRedemptionApproved, map[string]interface{}{
		"redemptionId": id.Hex(),
		"reward":       reward.Name,
	})
	return approved, nil
}

// RejectRedemption transitions a pending redemption to REJECTED with an
// optional reason. Points were never deducted, so there is nothing to refund.
func (s *RedemptionServiceImpl) RejectRedemption(ctx context.Context, id primitive.ObjectID, adminID, reason string) (*models.UserReward, error) {
	userReward, err := s.GetRedemptionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userReward.Status != models.RedemptionStatusPending {
		return nil, fmt.Errorf("%w: redemption is %s", ErrInvalidState, userReward.Status)
	}

	rejected, err := s.userRewardRepo.RejectIfPending(ctx, id, adminID, reason)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: redemption already decided", ErrInvalidState)
		}
		return nil, err
	}

	slog.Info("Redemption rejected", "redemptionId", id.Hex(), "rejectedBy", adminID, "reason", reason)
	s.notify(ctx, userReward.UserID, notifier.EventRedemptionRejected, map[string]interface{}{
		"redemptionId": id.Hex(),
		"reason":       reason,
	})
	return rejected, nil
}

// UpdateShipmentStatus advances the shipment sub-state of an approved
// redemption. Only forward transitions are allowed, and only once the
// redemption itself is approved.
func (s *RedemptionServiceImpl) UpdateShipmentStatus(ctx context.Context, id primitive.ObjectID, status models.ShipmentStatus, adminID string) (*models.UserReward, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown shipment status %q", ErrValidation, status)
	}

	userReward, err := s.GetRedemptionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userReward.Status != models.RedemptionStatusApproved {
		return nil, fmt.Errorf("%w: redemption is %s, shipment applies to approved redemptions only", ErrInvalidState, userReward.Status)
	}
	if !userReward.ShipmentStatus.CanAdvanceTo(status) {
		return nil, fmt.Errorf("%w: shipment cannot move from %s to %s", ErrInvalidState, userReward.ShipmentStatus, status)
	}

	// The write carries the sub-state read above in its filter, so if another
	// admin advanced the shipment in the meantime this update matches nothing
	// rather than rolling the state back.
	updated, err := s.userRewardRepo.UpdateShipment(ctx, id, userReward.ShipmentStatus, status, time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: redemption changed concurrently, reload and retry", ErrInvalidState)
		}
		return nil, err
	}

	slog.Info("Shipment updated", "redemptionId", id.Hex(), "status", string(status), "updatedBy", adminID)
	s.notify(ctx, userReward.UserID, notifier.EventShipmentUpdated, map[string]interface{}{
		"redemptionId":   id.Hex(),
		"shipmentStatus": string(status),
	})
	return updated, nil
}

// balance is the clamped spendable balance
func (s *RedemptionServiceImpl) balance(ctx context.Context, userID primitive.ObjectID) (int, error) {
	sum, err := s.pointsRepo.SumByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	if sum < 0 {
		return 0, nil
	}
	return sum, nil
}

func (s *RedemptionServiceImpl) notify(ctx context.Context, userID primitive.ObjectID, event notifier.Event, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID.Hex(), event, payload); err != nil {
		slog.Warn("Notification failed", "userId", userID.Hex(), "event", string(event), "error", err)
	}
}
