package services

import (
	"context"
	"fmt"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RateConfigServiceImpl implements RateConfigService
var _ RateConfigService = (*RateConfigServiceImpl)(nil)

// RateConfigServiceImpl manages the conversion rate table. Rates are
// validated on every update so a zero divisor can never reach the approval
// or recalculation paths.
type RateConfigServiceImpl struct {
	rateRepo repositories.RateConfigRepository
}

// NewRateConfigService creates a new RateConfigService
func NewRateConfigService(rateRepo repositories.RateConfigRepository) *RateConfigServiceImpl {
	return &RateConfigServiceImpl{rateRepo: rateRepo}
}

// GetRateConfig returns the live config, seeded with defaults on first use
func (s *RateConfigServiceImpl) GetRateConfig(ctx context.Context) (*models.RateConfig, error) {
	return s.rateRepo.Get(ctx)
}

// UpdateRateConfig validates and applies new rates. Changing rates does not
// touch existing awards by itself — an admin runs the recalculation job to
// apply new rates retroactively.
func (s *RateConfigServiceImpl) UpdateRateConfig(ctx context.Context, config *models.RateConfig, updatedBy string) (*models.RateConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	current, err := s.rateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	config.ID = current.ID
	config.CreatedAt = current.CreatedAt
	config.UpdatedBy = updatedBy
	if err := s.rateRepo.Update(ctx, config); err != nil {
		return nil, err
	}

	slog.Info("Rate config updated", "updatedBy", updatedBy,
		"software", config.SoftwareRate, "hardware", config.HardwareRate, "equipment", config.EquipmentRate)
	return config, nil
}
