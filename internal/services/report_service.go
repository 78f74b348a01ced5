package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ReportServiceImpl implements ReportService
var _ ReportService = (*ReportServiceImpl)(nil)

const (
	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = 60 * time.Second
)

// ReportServiceImpl serves read-only rollups over the ledger and deal table.
// It has no state of its own; correctness rides entirely on the ledger and
// approval invariants. The leaderboard is cached in Redis with a short TTL
// when a client is configured; without one every call hits Mongo directly.
type ReportServiceImpl struct {
	pointsRepo     repositories.PointsHistoryRepository
	dealRepo       repositories.DealRepository
	userRepo       repositories.UserRepository
	userRewardRepo repositories.UserRewardRepository
	cache          *redis.Client
}

// NewReportService creates a new ReportService; cache may be nil
func NewReportService(
	pointsRepo repositories.PointsHistoryRepository,
	dealRepo repositories.DealRepository,
	userRepo repositories.UserRepository,
	userRewardRepo repositories.UserRewardRepository,
	cache *redis.Client,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		pointsRepo:     pointsRepo,
		dealRepo:       dealRepo,
		userRepo:       userRepo,
		userRewardRepo: userRewardRepo,
		cache:          cache,
	}
}

// GetUserStats returns the per-user rollup: lifetime points, spendable
// points, deal counts and approved redemptions.
func (s *ReportServiceImpl) GetUserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, err
	}

	totalEarned, err := s.pointsRepo.SumEarnedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	rawBalance, err := s.pointsRepo.SumByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	available := rawBalance
	if available < 0 {
		available = 0
	}

	totalDeals, err := s.dealRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	pendingDeals, err := s.dealRepo.CountByUserIDAndStatus(ctx, userID, models.DealStatusPending)
	if err != nil {
		return nil, err
	}
	redeemed, err := s.userRewardRepo.CountByUserIDAndStatus(ctx, userID, models.RedemptionStatusApproved)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		TotalPoints:     totalEarned,
		AvailablePoints: available,
		TotalDeals:      int(totalDeals),
		PendingDeals:    int(pendingDeals),
		RedeemedRewards: int(redeemed),
	}, nil
}

// GetLeaderboard returns the top-N users by lifetime points with their
// display names joined in.
func (s *ReportServiceImpl) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if cached := s.cachedLeaderboard(ctx, limit); cached != nil {
		return cached, nil
	}

	entries, err := s.pointsRepo.TopEarners(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		user, err := s.userRepo.FindByID(ctx, entry.UserID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				entry.Username = "deleted user"
				continue
			}
			return nil, err
		}
		entry.Username = user.DisplayName()
	}

	s.storeLeaderboard(ctx, limit, entries)
	return entries, nil
}

// GetRevenueSummary totals approved deal values closed within [start, end),
// optionally restricted to users in one country. Sums are computed with
// exact decimals over the (low-volume) deal set.
func (s *ReportServiceImpl) GetRevenueSummary(ctx context.Context, country string, start, end time.Time) (*RevenueSummary, error) {
	deals, err := s.dealRepo.FindApprovedByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var allowed map[primitive.ObjectID]bool
	if country != "" {
		ids, err := s.userRepo.FindIDsByCountry(ctx, country)
		if err != nil {
			return nil, err
		}
		allowed = make(map[primitive.ObjectID]bool, len(ids))
		for _, id := range ids {
			allowed[id] = true
		}
	}

	total := decimal.Zero
	byType := map[string]decimal.Decimal{}
	count := 0
	for _, deal := range deals {
		if allowed != nil && !allowed[deal.UserID] {
			continue
		}
		value, err := deal.Value()
		if err != nil {
			slog.Warn("Skipping deal with unparsable value", "dealId", deal.ID.Hex(), "value", deal.DealValue)
			continue
		}
		total = total.Add(value)
		byType[string(deal.ProductType)] = byType[string(deal.ProductType)].Add(value)
		count++
	}

	summary := &RevenueSummary{
		TotalRevenue:  total.String(),
		DealCount:     count,
		ByProductType: make(map[string]string, len(byType)),
	}
	for productType, value := range byType {
		summary.ByProductType[productType] = value.String()
	}
	return summary, nil
}

func (s *ReportServiceImpl) cachedLeaderboard(ctx context.Context, limit int) []*models.LeaderboardEntry {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, fmt.Sprintf("%s:%d", leaderboardCacheKey, limit)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Leaderboard cache read failed", "error", err)
		}
		return nil
	}
	var entries []*models.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

func (s *ReportServiceImpl) storeLeaderboard(ctx context.Context, limit int, entries []*models.LeaderboardEntry) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, fmt.Sprintf("%s:%d", leaderboardCacheKey, limit), raw, leaderboardCacheTTL).Err(); err != nil {
		slog.Warn("Leaderboard cache write failed", "error", err)
	}
}
