package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointsHistory is a single append-only ledger entry. Positive points are
// earns tagged with the originating deal, negative points are spends tagged
// with the redeemed reward; an entry never carries both tags. Entries are
// never updated in place — recalculation corrects a deal by deleting its
// entries and inserting a fresh one.
type PointsHistory struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	Points      int                 `bson:"points" json:"points"`
	DealID      *primitive.ObjectID `bson:"dealId,omitempty" json:"dealId,omitempty"`
	RewardID    *primitive.ObjectID `bson:"rewardId,omitempty" json:"rewardId,omitempty"`
	Description string              `bson:"description" json:"description"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// LeaderboardEntry is an aggregated lifetime-points row for one user.
type LeaderboardEntry struct {
	UserID      primitive.ObjectID `bson:"_id" json:"userId"`
	Username    string             `bson:"-" json:"username"`
	TotalPoints int                `bson:"totalPoints" json:"totalPoints"`
}
