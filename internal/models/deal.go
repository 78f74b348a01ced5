package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductType identifies the rate category a deal belongs to
type ProductType string

const (
	ProductTypeSoftware  ProductType = "SOFTWARE"
	ProductTypeHardware  ProductType = "HARDWARE"
	ProductTypeEquipment ProductType = "EQUIPMENT"
)

// Valid reports whether p is one of the known product types
func (p ProductType) Valid() bool {
	switch p {
	case ProductTypeSoftware, ProductTypeHardware, ProductTypeEquipment:
		return true
	}
	return false
}

// DealStatus represents the approval status of a deal
type DealStatus string

const (
	DealStatusPending  DealStatus = "PENDING"
	DealStatusApproved DealStatus = "APPROVED"
	DealStatusRejected DealStatus = "REJECTED"
)

// Deal represents a reported sale submitted by a partner for admin approval.
// DealValue is kept as a decimal string so USD amounts are never stored in a
// binary floating type.
type Deal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	ProductType  ProductType        `bson:"productType" json:"productType"`
	ProductName  string             `bson:"productName" json:"productName"`
	DealValue    string             `bson:"dealValue" json:"dealValue"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	CloseDate    time.Time          `bson:"closeDate" json:"closeDate"`
	Status       DealStatus         `bson:"status" json:"status"`
	PointsEarned int                `bson:"pointsEarned" json:"pointsEarned"`
	ApprovedBy   string             `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt   time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Value parses the stored deal value into an exact decimal
func (d *Deal) Value() (decimal.Decimal, error) {
	return decimal.NewFromString(d.DealValue)
}
