package services

import (
	"context"
	"testing"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateConfigSeedsDefaults(t *testing.T) {
	service := NewRateConfigService(newFakeRateRepo())

	config, err := service.GetRateConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1000", config.SoftwareRate)
	assert.Equal(t, "1500", config.HardwareRate)
	assert.Equal(t, "2000", config.EquipmentRate)
	assert.Equal(t, 100, config.GrandPrizeThreshold)
}

func TestUpdateRateConfig(t *testing.T) {
	rates := newFakeRateRepo()
	service := NewRateConfigService(rates)
	ctx := context.Background()

	seeded, err := service.GetRateConfig(ctx)
	require.NoError(t, err)

	next := models.DefaultRateConfig()
	next.SoftwareRate = "500"
	next.GrandPrizeThreshold = 250

	updated, err := service.UpdateRateConfig(ctx, next, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, "500", updated.SoftwareRate)
	assert.Equal(t, 250, updated.GrandPrizeThreshold)
	assert.Equal(t, "admin-1", updated.UpdatedBy)
	assert.Equal(t, seeded.ID, updated.ID, "there is exactly one live config document")
}

func TestUpdateRateConfigValidation(t *testing.T) {
	service := NewRateConfigService(newFakeRateRepo())
	ctx := context.Background()

	t.Run("zero rate rejected", func(t *testing.T) {
		bad := models.DefaultRateConfig()
		bad.HardwareRate = "0"
		_, err := service.UpdateRateConfig(ctx, bad, "admin-1")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("negative rate rejected", func(t *testing.T) {
		bad := models.DefaultRateConfig()
		bad.EquipmentRate = "-10"
		_, err := service.UpdateRateConfig(ctx, bad, "admin-1")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("non-decimal rate rejected", func(t *testing.T) {
		bad := models.DefaultRateConfig()
		bad.SoftwareRate = "cheap"
		_, err := service.UpdateRateConfig(ctx, bad, "admin-1")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("non-positive threshold rejected", func(t *testing.T) {
		bad := models.DefaultRateConfig()
		bad.GrandPrizeThreshold = 0
		_, err := service.UpdateRateConfig(ctx, bad, "admin-1")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateRateConfigDoesNotTouchAwards(t *testing.T) {
	// Changing rates must not rewrite history by itself; the recalculation
	// job is the only path that corrects past awards.
	users := newFakeUserRepo()
	deals := newFakeDealRepo()
	ledger := newFakeLedger()
	rates := newFakeRateRepo()
	dealService := NewDealService(deals, users, rates, ledger, fakeTransactor{}, nil)
	rateService := NewRateConfigService(rates)
	ctx := context.Background()

	userID := users.addActive("alice")
	deal, err := dealService.CreateDeal(ctx, userID, &CreateDealRequest{
		ProductType: models.ProductTypeSoftware,
		ProductName: "Acme Suite",
		DealValue:   "2500",
		Quantity:    1,
		CloseDate:   time.Now(),
	})
	require.NoError(t, err)
	_, err = dealService.ApproveDeal(ctx, deal.ID, "admin-1")
	require.NoError(t, err)

	next := models.DefaultRateConfig()
	next.SoftwareRate = "500"
	_, err = rateService.UpdateRateConfig(ctx, next, "admin-1")
	require.NoError(t, err)

	unchanged, err := deals.FindByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unchanged.PointsEarned)

	sum, err := ledger.SumByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum)
}
