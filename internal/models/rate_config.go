package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RateConfig is the admin-editable conversion table: USD needed to earn one
// point, per product category, plus the grand prize qualification threshold.
// There is exactly one live document; it is seeded with defaults on first
// read and mutated in place afterwards. Rates are decimal strings for the
// same reason deal values are.
type RateConfig struct {
	ID                         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SoftwareRate               string             `bson:"softwareRate" json:"softwareRate"`
	HardwareRate               string             `bson:"hardwareRate" json:"hardwareRate"`
	EquipmentRate              string             `bson:"equipmentRate" json:"equipmentRate"`
	GrandPrizeThreshold        int                `bson:"grandPrizeThreshold" json:"grandPrizeThreshold"`
	DefaultNewCustomerGoalRate string             `bson:"defaultNewCustomerGoalRate" json:"defaultNewCustomerGoalRate"`
	DefaultRenewalGoalRate     string             `bson:"defaultRenewalGoalRate" json:"defaultRenewalGoalRate"`
	UpdatedBy                  string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt                  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultRateConfig returns the seed configuration used before an admin has
// edited anything.
func DefaultRateConfig() *RateConfig {
	return &RateConfig{
		SoftwareRate:               "1000",
		HardwareRate:               "1500",
		EquipmentRate:              "2000",
		GrandPrizeThreshold:        100,
		DefaultNewCustomerGoalRate: "1000",
		DefaultRenewalGoalRate:     "2000",
	}
}

// RateFor returns the USD-per-point rate for a product category.
func (r *RateConfig) RateFor(productType ProductType) (decimal.Decimal, error) {
	var raw string
	switch productType {
	case ProductTypeSoftware:
		raw = r.SoftwareRate
	case ProductTypeHardware:
		raw = r.HardwareRate
	case ProductTypeEquipment:
		raw = r.EquipmentRate
	default:
		return decimal.Zero, fmt.Errorf("no rate configured for product type %q", productType)
	}
	return decimal.NewFromString(raw)
}

// Validate checks that every rate is a positive decimal. A zero rate would
// later be used as a divisor, so it is rejected here.
func (r *RateConfig) Validate() error {
	rates := map[string]string{
		"softwareRate":               r.SoftwareRate,
		"hardwareRate":               r.HardwareRate,
		"equipmentRate":              r.EquipmentRate,
		"defaultNewCustomerGoalRate": r.DefaultNewCustomerGoalRate,
		"defaultRenewalGoalRate":     r.DefaultRenewalGoalRate,
	}
	for name, raw := range rates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid decimal %q", name, raw)
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%s must be positive, got %s", name, raw)
		}
	}
	if r.GrandPrizeThreshold <= 0 {
		return fmt.Errorf("grandPrizeThreshold must be positive, got %d", r.GrandPrizeThreshold)
	}
	return nil
}
