package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/notifier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl executes the monthly grand prize draw. Candidates are the
// users whose points earned within the month reached the grand prize
// threshold from the rate config; one winner is picked at random.
type DrawServiceImpl struct {
	drawRepo   repositories.DrawRepository
	pointsRepo repositories.PointsHistoryRepository
	userRepo   repositories.UserRepository
	rateRepo   repositories.RateConfigRepository
	notifier   notifier.Notifier
}

// NewDrawService creates a new DrawService
func NewDrawService(
	drawRepo repositories.DrawRepository,
	pointsRepo repositories.PointsHistoryRepository,
	userRepo repositories.UserRepository,
	rateRepo repositories.RateConfigRepository,
	n notifier.Notifier,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:   drawRepo,
		pointsRepo: pointsRepo,
		userRepo:   userRepo,
		rateRepo:   rateRepo,
		notifier:   n,
	}
}

// ExecuteMonthlyDraw runs the draw for a YYYY-MM month. A month with an
// executed draw cannot be drawn again.
func (s *DrawServiceImpl) ExecuteMonthlyDraw(ctx context.Context, month string, adminID string) (*models.Draw, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
	}
	end := start.AddDate(0, 1, 0)

	if _, err := s.drawRepo.FindByMonth(ctx, month); err == nil {
		return nil, fmt.Errorf("%w: draw for %s already executed", ErrInvalidState, month)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	config, err := s.rateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rate config: %w", err)
	}

	totals, err := s.pointsRepo.SumEarnedByUserBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly points: %w", err)
	}

	candidates := make([]primitive.ObjectID, 0, len(totals))
	for userID, total := range totals {
		if total >= config.GrandPrizeThreshold {
			candidates = append(candidates, userID)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no qualified candidates for %s", ErrInvalidState, month)
	}
	// Map iteration order is random; sort so the rand pick is over a stable list
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Hex() < candidates[j].Hex()
	})

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		return nil, fmt.Errorf("failed to draw winner: %w", err)
	}
	winnerID := candidates[idx.Int64()]

	winnerName := ""
	if winner, err := s.userRepo.FindByID(ctx, winnerID); err == nil {
		winnerName = winner.DisplayName()
	}

	draw := &models.Draw{
		Month:          month,
		Status:         models.DrawStatusCompleted,
		Threshold:      config.GrandPrizeThreshold,
		CandidateCount: len(candidates),
		WinnerUserID:   winnerID,
		WinnerName:     winnerName,
		ExecutedBy:     adminID,
		ExecutedAt:     time.Now(),
		CreatedAt:      time.Now(),
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to persist draw: %w", err)
	}

	slog.Info("Monthly draw executed", "month", month, "candidates", len(candidates), "winner", winnerID.Hex())
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, winnerID.Hex(), notifier.EventDrawWinner, map[string]interface{}{
			"month": month,
		}); err != nil {
			slog.Warn("Notification failed", "userId", winnerID.Hex(), "event", string(notifier.EventDrawWinner), "error", err)
		}
	}
	return draw, nil
}

// GetDraws lists executed draws with pagination
func (s *DrawServiceImpl) GetDraws(ctx context.Context, page, limit int) ([]*models.Draw, error) {
	return s.drawRepo.FindAll(ctx, page, limit)
}
