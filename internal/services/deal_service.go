package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/notifier"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DealServiceImpl implements DealService
var _ DealService = (*DealServiceImpl)(nil)

// DealServiceImpl owns the deal approval state machine. Point awards are
// derived from the rate table live at approval time, not at creation time;
// the recalculation job re-derives them after the table changes.
type DealServiceImpl struct {
	dealRepo   repositories.DealRepository
	userRepo   repositories.UserRepository
	rateRepo   repositories.RateConfigRepository
	pointsRepo repositories.PointsHistoryRepository
	tx         repositories.Transactor
	notifier   notifier.Notifier
}

// NewDealService creates a new DealService
func NewDealService(
	dealRepo repositories.DealRepository,
	userRepo repositories.UserRepository,
	rateRepo repositories.RateConfigRepository,
	pointsRepo repositories.PointsHistoryRepository,
	tx repositories.Transactor,
	n notifier.Notifier,
) *DealServiceImpl {
	return &DealServiceImpl{
		dealRepo:   dealRepo,
		userRepo:   userRepo,
		rateRepo:   rateRepo,
		pointsRepo: pointsRepo,
		tx:         tx,
		notifier:   n,
	}
}

// CreateDeal validates and persists a new pending deal for an active user
func (s *DealServiceImpl) CreateDeal(ctx context.Context, userID primitive.ObjectID, req *CreateDealRequest) (*models.Deal, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account is not active", ErrInvalidState)
	}

	if !req.ProductType.Valid() {
		return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, req.ProductType)
	}
	value, err := decimal.NewFromString(req.DealValue)
	if err != nil {
		return nil, fmt.Errorf("%w: dealValue %q is not a decimal", ErrValidation, req.DealValue)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: dealValue must be positive", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	now := time.Now()
	deal := &models.Deal{
		UserID:      userID,
		ProductType: req.ProductType,
		ProductName: req.ProductName,
		DealValue:   value.String(),
		Quantity:    req.Quantity,
		CloseDate:   req.CloseDate,
		Status:      models.DealStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	slog.Info("Deal created", "dealId", deal.ID.Hex(), "userId", userID.Hex(), "value", deal.DealValue)
	return deal, nil
}

// GetDealByID retrieves a deal by ID
func (s *DealServiceImpl) GetDealByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error) {
	deal, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("deal %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return deal, nil
}

// GetDealsByUser retrieves a user's deals with pagination
func (s *DealServiceImpl) GetDealsByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Deal, error) {
	return s.dealRepo.FindByUserID(ctx, userID, page, limit)
}

// GetDealsByStatus retrieves deals by status with pagination
func (s *DealServiceImpl) GetDealsByStatus(ctx context.Context, status models.DealStatus, page, limit int) ([]*models.Deal, error) {
	return s.dealRepo.FindByStatus(ctx, status, page, limit)
}

// ApproveDeal transitions a pending deal to APPROVED, computes its point
// award from the live rate table and appends the matching ledger earn entry.
// The status transition and the ledger append happen in one transaction, and
// the transition itself is status-guarded, so approving twice cannot award
// twice: the second call fails with ErrInvalidState.
func (s *DealServiceImpl) ApproveDeal(ctx context.Context, dealID primitive.ObjectID, approverID string) (*models.Deal, error) {
	deal, err := s.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status != models.DealStatusPending {
		return nil, fmt.Errorf("%w: deal is %s", ErrInvalidState, deal.Status)
	}

	config, err := s.rateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate config: %w", err)
	}
	points, err := s.computePoints(deal, config)
	if err != nil {
		return nil, err
	}

	var approved *models.Deal
	var earnedBefore int
	now := time.Now()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Lifetime total before the award, read inside the transaction so
		// concurrent approvals for the same user each see a consistent
		// before/after pair for the grand prize threshold check.
		earnedBefore, err = s.pointsRepo.SumEarnedByUserID(ctx, deal.UserID)
		if err != nil {
			return fmt.Errorf("failed to read lifetime points: %w", err)
		}
		approved, err = s.dealRepo.ApproveIfPending(ctx, dealID, points, approverID, now)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("%w: deal already decided", ErrInvalidState)
			}
			return err
		}
		if points > 0 {
			entry := &models.PointsHistory{
				UserID:      deal.UserID,
				Points:      points,
				DealID:      &dealID,
				Description: fmt.Sprintf("Points earned for deal %q", deal.ProductName),
				CreatedAt:   now,
			}
			if err := s.pointsRepo.Create(ctx, entry); err != nil {
				return fmt.Errorf("failed to append ledger entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Deal approved", "dealId", dealID.Hex(), "points", points, "approvedBy", approverID)
	s.notify(ctx, deal.UserID, notifier.EventDealApproved, map[string]interface{}{
		"dealId": dealID.Hex(),
		"points": points,
	})

	if points > 0 && earnedBefore < config.GrandPrizeThreshold && earnedBefore+points >= config.GrandPrizeThreshold {
		s.notify(ctx, deal.UserID, notifier.EventGrandPrizeQualified, map[string]interface{}{
			"threshold": config.GrandPrizeThreshold,
			"total":     earnedBefore + points,
		})
	}

	return approved, nil
}

// RejectDeal transitions a pending deal to REJECTED; no ledger effect
func (s *DealServiceImpl) RejectDeal(ctx context.Context, dealID primitive.ObjectID, approverID string) (*models.Deal, error) {
	deal, err := s.GetDealByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.Status != models.DealStatusPending {
		return nil, fmt.Errorf("%w: deal is %s", ErrInvalidState, deal.Status)
	}

	rejected, err := s.dealRepo.RejectIfPending(ctx, dealID, approverID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: deal already decided", ErrInvalidState)
		}
		return nil, err
	}

	slog.Info("Deal rejected", "dealId", dealID.Hex(), "rejectedBy", approverID)
	s.notify(ctx, deal.UserID, notifier.EventDealRejected, map[string]interface{}{
		"dealId": dealID.Hex(),
	})
	return rejected, nil
}

// RecalculateAllDeals re-derives every approved deal's point award from the
// current rate table and reconciles the ledger to match. Corrections use the
// delete-then-insert pattern keyed by deal ID inside one transaction per
// deal. A failure on one deal is collected, not fatal. Running the job twice
// with unchanged rates updates nothing the second time. It deliberately
// skips approval side effects: no notifications, no grand prize checks.
func (s *DealServiceImpl) RecalculateAllDeals(ctx context.Context) (*RecalculationResult, error) {
	config, err := s.rateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate config: %w", err)
	}

	result := &RecalculationResult{Errors: []string{}}

	deals, err := s.dealRepo.FindApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved deals: %w", err)
	}
	for _, deal := range deals {
		changed, err := s.recalculateDeal(ctx, deal, config)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("deal %s: %v", deal.ID.Hex(), err))
			continue
		}
		if changed {
			result.Updated++
		}
	}

	// Consistency repair: non-approved deals must not carry points or ledger entries
	strays, err := s.dealRepo.FindNonApprovedWithPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stray deals: %w", err)
	}
	for _, deal := range strays {
		deal := deal
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.dealRepo.UpdatePoints(ctx, deal.ID, 0); err != nil {
				return err
			}
			_, err := s.pointsRepo.DeleteByDealID(ctx, deal.ID)
			return err
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("deal %s: %v", deal.ID.Hex(), err))
			continue
		}
		result.Updated++
	}

	slog.Info("Recalculation finished", "updated", result.Updated, "errors", len(result.Errors))
	return result, nil
}

func (s *DealServiceImpl) recalculateDeal(ctx context.Context, deal *models.Deal, config *models.RateConfig) (bool, error) {
	newPoints, err := s.computePoints(deal, config)
	if err != nil {
		return false, err
	}
	if newPoints == deal.PointsEarned {
		return false, nil
	}

	dealID := deal.ID
	return true, s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.dealRepo.UpdatePoints(ctx, dealID, newPoints); err != nil {
			return err
		}
		if _, err := s.pointsRepo.DeleteByDealID(ctx, dealID); err != nil {
			return err
		}
		if newPoints > 0 {
			entry := &models.PointsHistory{
				UserID:      deal.UserID,
				Points:      newPoints,
				DealID:      &dealID,
				Description: fmt.Sprintf("Points recalculated for deal %q", deal.ProductName),
				CreatedAt:   time.Now(),
			}
			return s.pointsRepo.Create(ctx, entry)
		}
		return nil
	})
}

// computePoints is floor(dealValue / rate) for the deal's category
func (s *DealServiceImpl) computePoints(deal *models.Deal, config *models.RateConfig) (int, error) {
	value, err := deal.Value()
	if err != nil {
		return 0, fmt.Errorf("%w: stored dealValue %q is not a decimal", ErrValidation, deal.DealValue)
	}
	rate, err := config.RateFor(deal.ProductType)
	if err != nil {
		// Persisted deals always carry a validated product type, so this is
		// a configuration hole, not user input. Award nothing and say so.
		slog.Warn("No rate for product type, awarding zero points", "dealId", deal.ID.Hex(), "productType", deal.ProductType)
		return 0, nil
	}
	return int(value.Div(rate).Floor().IntPart()), nil
}

// notify delivers fire-and-forget; failures are logged and never propagate
func (s *DealServiceImpl) notify(ctx context.Context, userID primitive.ObjectID, event notifier.Event, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID.Hex(), event, payload); err != nil {
		slog.Warn("Notification failed", "userId", userID.Hex(), "event", string(event), "error", err)
	}
}
