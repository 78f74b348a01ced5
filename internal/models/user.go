package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStatus represents the account approval status. New registrations start
// PENDING and must be approved by an admin before they can report deals or
// redeem points.
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusRejected UserStatus = "REJECTED"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a partner account. Points are never denormalized here —
// the points history collection is the single source of truth for balances.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName  string             `bson:"firstName" json:"firstName"`
	LastName   string             `bson:"lastName" json:"lastName"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	Company    string             `bson:"company,omitempty" json:"company,omitempty"`
	Country    string             `bson:"country,omitempty" json:"country,omitempty"`
	Role       string             `bson:"role" json:"role"`
	Status     UserStatus         `bson:"status" json:"status"`
	ApprovedBy string             `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName returns the name shown on leaderboards
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UserStats is the per-user rollup returned by the reports endpoint
type UserStats struct {
	TotalPoints     int `json:"totalPoints"`
	AvailablePoints int `json:"availablePoints"`
	TotalDeals      int `json:"totalDeals"`
	PendingDeals    int `json:"pendingDeals"`
	RedeemedRewards int `json:"redeemedRewards"`
}
