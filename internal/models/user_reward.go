package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionStatus represents the approval status of a redemption request
type RedemptionStatus string

const (
	RedemptionStatusPending  RedemptionStatus = "PENDING"
	RedemptionStatusApproved RedemptionStatus = "APPROVED"
	RedemptionStatusRejected RedemptionStatus = "REJECTED"
)

// ShipmentStatus tracks physical fulfilment of an approved redemption.
// It only moves forward: PENDING -> SHIPPED -> DELIVERED.
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "PENDING"
	ShipmentStatusShipped   ShipmentStatus = "SHIPPED"
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
)

// Valid reports whether s is a known shipment status
func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusShipped, ShipmentStatusDelivered:
		return true
	}
	return false
}

// rank orders shipment statuses so transitions can be checked for direction
func (s ShipmentStatus) rank() int {
	switch s {
	case ShipmentStatusPending:
		return 0
	case ShipmentStatusShipped:
		return 1
	case ShipmentStatusDelivered:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether moving from s to next is a forward transition
func (s ShipmentStatus) CanAdvanceTo(next ShipmentStatus) bool {
	return next.Valid() && next.rank() > s.rank()
}

// UserReward is a user's request to exchange points for a catalog reward.
// Points are debited only when the request is approved, never at creation.
type UserReward struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	RewardID        primitive.ObjectID `bson:"rewardId" json:"rewardId"`
	Status          RedemptionStatus   `bson:"status" json:"status"`
	ShipmentStatus  ShipmentStatus     `bson:"shipmentStatus,omitempty" json:"shipmentStatus,omitempty"`
	ApprovedBy      string             `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt      time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	RedeemedAt      time.Time          `bson:"redeemedAt" json:"redeemedAt"`
	ShippedAt       time.Time          `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt     time.Time          `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
