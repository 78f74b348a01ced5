package services

import (
	"context"
	"testing"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetUserStats(t *testing.T) {
	users := newFakeUserRepo()
	deals := newFakeDealRepo()
	ledger := newFakeLedger()
	userRewards := newFakeUserRewardRepo()
	service := NewReportService(ledger, deals, users, userRewards, nil)
	ctx := context.Background()

	userID := users.addActive("alice")

	// Two approved deals earning 10 and 5, one pending, one 7-point spend
	earnedDeal := primitive.NewObjectID()
	require.NoError(t, deals.Create(ctx, &models.Deal{ID: earnedDeal, UserID: userID, Status: models.DealStatusApproved, PointsEarned: 10, DealValue: "10000", ProductType: models.ProductTypeSoftware}))
	other := primitive.NewObjectID()
	require.NoError(t, deals.Create(ctx, &models.Deal{ID: other, UserID: userID, Status: models.DealStatusApproved, PointsEarned: 5, DealValue: "5000", ProductType: models.ProductTypeSoftware}))
	require.NoError(t, deals.Create(ctx, &models.Deal{UserID: userID, Status: models.DealStatusPending, DealValue: "100", ProductType: models.ProductTypeSoftware}))

	require.NoError(t, ledger.Create(ctx, &models.PointsHistory{UserID: userID, Points: 10, DealID: &earnedDeal}))
	require.NoError(t, ledger.Create(ctx, &models.PointsHistory{UserID: userID, Points: 5, DealID: &other}))
	rewardID := primitive.NewObjectID()
	require.NoError(t, ledger.Create(ctx, &models.PointsHistory{UserID: userID, Points: -7, RewardID: &rewardID}))
	require.NoError(t, userRewards.Create(ctx, &models.UserReward{UserID: userID, RewardID: rewardID, Status: models.RedemptionStatusApproved}))

	stats, err := service.GetUserStats(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 15, stats.TotalPoints)
	assert.Equal(t, 8, stats.AvailablePoints)
	assert.Equal(t, 3, stats.TotalDeals)
	assert.Equal(t, 1, stats.PendingDeals)
	assert.Equal(t, 1, stats.RedeemedRewards)
}

func TestGetUserStatsUnknownUser(t *testing.T) {
	service := NewReportService(newFakeLedger(), newFakeDealRepo(), newFakeUserRepo(), newFakeUserRewardRepo(), nil)
	_, err := service.GetUserStats(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLeaderboard(t *testing.T) {
	users := newFakeUserRepo()
	ledger := newFakeLedger()
	service := NewReportService(ledger, newFakeDealRepo(), users, newFakeUserRewardRepo(), nil)
	ctx := context.Background()

	alice := users.addActive("alice")
	bob := users.addActive("bob")
	ghost := primitive.NewObjectID() // earned points but account was deleted

	deal := primitive.NewObjectID()
	require.NoError(t, ledger.Create(ctx, &models.PointsHistory{UserID: alice, Points: 30, DealID: &deal}))
	require.NoError(t, ledger.Create(ctx, &models.PointsHistory{UserID: bob, Points: 50, DealID: &deal}))
	require.NoError(t, ledger.Create(ctx, &models.PointsHistory{UserID: ghost, Points: 10, DealID: &deal}))
	// Spends do not reduce leaderboard standings
	rewardID := primitive.NewObjectID()
	require.NoError(t, ledger.Create(ctx, &models.PointsHistory{UserID: bob, Points: -40, RewardID: &rewardID}))

	entries, err := service.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, bob, entries[0].UserID)
	assert.Equal(t, 50, entries[0].TotalPoints)
	assert.Equal(t, "bob", entries[0].Username)
	assert.Equal(t, alice, entries[1].UserID)
	assert.Equal(t, "deleted user", entries[2].Username)
}

func TestGetRevenueSummary(t *testing.T) {
	users := newFakeUserRepo()
	deals := newFakeDealRepo()
	service := NewReportService(newFakeLedger(), deals, users, newFakeUserRewardRepo(), nil)
	ctx := context.Background()

	us := &models.User{Email: "us@example.com", Country: "US", Status: models.UserStatusActive}
	require.NoError(t, users.Create(ctx, us))
	de := &models.User{Email: "de@example.com", Country: "DE", Status: models.UserStatusActive}
	require.NoError(t, users.Create(ctx, de))

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, deals.Create(ctx, &models.Deal{UserID: us.ID, Status: models.DealStatusApproved, ProductType: models.ProductTypeSoftware, DealValue: "1000.50", CloseDate: jan}))
	require.NoError(t, deals.Create(ctx, &models.Deal{UserID: us.ID, Status: models.DealStatusApproved, ProductType: models.ProductTypeHardware, DealValue: "2000.25", CloseDate: jan}))
	require.NoError(t, deals.Create(ctx, &models.Deal{UserID: de.ID, Status: models.DealStatusApproved, ProductType: models.ProductTypeSoftware, DealValue: "500", CloseDate: jan}))
	// Pending deals never count as revenue
	require.NoError(t, deals.Create(ctx, &models.Deal{UserID: us.ID, Status: models.DealStatusPending, ProductType: models.ProductTypeSoftware, DealValue: "9999", CloseDate: jan}))
	// Outside the window
	require.NoError(t, deals.Create(ctx, &models.Deal{UserID: us.ID, Status: models.DealStatusApproved, ProductType: models.ProductTypeSoftware, DealValue: "777", CloseDate: jan.AddDate(0, 3, 0)}))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all countries", func(t *testing.T) {
		summary, err := service.GetRevenueSummary(ctx, "", start, end)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.DealCount)
		assert.Equal(t, "3500.75", summary.TotalRevenue)
		assert.Equal(t, "1500.5", summary.ByProductType["SOFTWARE"])
		assert.Equal(t, "2000.25", summary.ByProductType["HARDWARE"])
	})

	t.Run("filtered by country", func(t *testing.T) {
		summary, err := service.GetRevenueSummary(ctx, "DE", start, end)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.DealCount)
		assert.Equal(t, "500", summary.TotalRevenue)
	})
}
