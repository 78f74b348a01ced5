package services

import (
	"context"
	"fmt"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure PointsServiceImpl implements PointsService
var _ PointsService = (*PointsServiceImpl)(nil)

// PointsServiceImpl is the ledger facade over the points history collection.
// The collection is the single source of truth for balances; nothing is
// denormalized onto the user document.
type PointsServiceImpl struct {
	pointsRepo repositories.PointsHistoryRepository
}

// NewPointsService creates a new PointsService
func NewPointsService(pointsRepo repositories.PointsHistoryRepository) *PointsServiceImpl {
	return &PointsServiceImpl{pointsRepo: pointsRepo}
}

// Append inserts a ledger entry. An entry is either an earn tagged with a
// deal or a spend tagged with a reward, never both.
func (s *PointsServiceImpl) Append(ctx context.Context, entry *models.PointsHistory) error {
	if entry.UserID.IsZero() {
		return fmt.Errorf("%w: ledger entry requires a user", ErrValidation)
	}
	if entry.Points == 0 {
		return fmt.Errorf("%w: ledger entry requires non-zero points", ErrValidation)
	}
	if entry.DealID != nil && entry.RewardID != nil {
		return fmt.Errorf("%w: ledger entry cannot reference both a deal and a reward", ErrValidation)
	}
	return s.pointsRepo.Create(ctx, entry)
}

// Balance returns the user's spendable points, clamped at zero for display.
// The true signed sum stays in the ledger for audit.
func (s *PointsServiceImpl) Balance(ctx context.Context, userID primitive.ObjectID) (int, error) {
	sum, err := s.pointsRepo.SumByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if sum < 0 {
		return 0, nil
	}
	return sum, nil
}

// RawBalance returns the unclamped signed sum
func (s *PointsServiceImpl) RawBalance(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return s.pointsRepo.SumByUserID(ctx, userID)
}

// TotalEarned returns lifetime positive points, which may differ from the
// spendable balance once spends are netted in.
func (s *PointsServiceImpl) TotalEarned(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return s.pointsRepo.SumEarnedByUserID(ctx, userID)
}

// History returns a user's ledger entries, newest first
func (s *PointsServiceImpl) History(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointsHistory, error) {
	return s.pointsRepo.FindByUserID(ctx, userID, page, limit)
}
