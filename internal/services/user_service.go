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

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl manages partner accounts and the admin approval workflow
type UserServiceImpl struct {
	userRepo       repositories.UserRepository
	dealRepo       repositories.DealRepository
	pointsRepo     repositories.PointsHistoryRepository
	userRewardRepo repositories.UserRewardRepository
	tx             repositories.Transactor
	notifier       notifier.Notifier
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	dealRepo repositories.DealRepository,
	pointsRepo repositories.PointsHistoryRepository,
	userRewardRepo repositories.UserRewardRepository,
	tx repositories.Transactor,
	n notifier.Notifier,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:       userRepo,
		dealRepo:       dealRepo,
		pointsRepo:     pointsRepo,
		userRewardRepo: userRewardRepo,
		tx:             tx,
		notifier:       n,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserServiceImpl) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// GetAllUsers retrieves all users with pagination
func (s *UserServiceImpl) GetAllUsers(ctx context.Context, page, limit int) ([]*models.User, error) {
	return s.userRepo.FindAll(ctx, page, limit)
}

// GetUsersByStatus retrieves users by account status with pagination
func (s *UserServiceImpl) GetUsersByStatus(ctx context.Context, status models.UserStatus, page, limit int) ([]*models.User, error) {
	return s.userRepo.FindByStatus(ctx, status, page, limit)
}

// ApproveUser activates a pending account
func (s *UserServiceImpl) ApproveUser(ctx context.Context, id primitive.ObjectID, adminID string) (*models.User, error) {
	return s.decide(ctx, id, adminID, models.UserStatusActive, notifier.EventAccountApproved)
}

// RejectUser rejects a pending account
func (s *UserServiceImpl) RejectUser(ctx context.Context, id primitive.ObjectID, adminID string) (*models.User, error) {
	return s.decide(ctx, id, adminID, models.UserStatusRejected, notifier.EventAccountRejected)
}

func (s *UserServiceImpl) decide(ctx context.Context, id primitive.ObjectID, adminID string, status models.UserStatus, event notifier.Event) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusPending {
		return nil, fmt.Errorf("%w: account is %s", ErrInvalidState, user.Status)
	}

	user.Status = status
	user.ApprovedBy = adminID
	user.ApprovedAt = time.Now()
	user.UpdatedAt = user.ApprovedAt
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User account decided", "userId", id.Hex(), "status", string(status), "by", adminID)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, id.Hex(), event, nil); err != nil {
			slog.Warn("Notification failed", "userId", id.Hex(), "event", string(event), "error", err)
		}
	}
	user.Password = ""
	return user, nil
}

// DeleteUser removes a user account together with everything keyed to it:
// deals, redemptions and ledger entries. The cascade runs in one transaction
// so a deleted account can never leave orphaned rows feeding the leaderboard
// or revenue rollups.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}

	var deals, redemptions, entries int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if deals, err = s.dealRepo.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if redemptions, err = s.userRewardRepo.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		if entries, err = s.pointsRepo.DeleteByUserID(ctx, id); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("User deleted", "userId", id.Hex(),
		"deals", deals, "redemptions", redemptions, "ledgerEntries", entries)
	return nil
}

// GetUserCount returns the total number of users
func (s *UserServiceImpl) GetUserCount(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
