package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the status of a monthly prize draw
type DrawStatus string

const (
	DrawStatusCompleted DrawStatus = "COMPLETED"
	DrawStatusFailed    DrawStatus = "FAILED"
)

// Draw records one monthly grand prize draw. Candidates are the users whose
// points earned within the month reached the grand prize threshold; at most
// one completed draw exists per month.
type Draw struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Month          string             `bson:"month" json:"month"` // YYYY-MM
	Status         DrawStatus         `bson:"status" json:"status"`
	Threshold      int                `bson:"threshold" json:"threshold"`
	CandidateCount int                `bson:"candidateCount" json:"candidateCount"`
	WinnerUserID   primitive.ObjectID `bson:"winnerUserId,omitempty" json:"winnerUserId,omitempty"`
	WinnerName     string             `bson:"winnerName,omitempty" json:"winnerName,omitempty"`
	ExecutedBy     string             `bson:"executedBy" json:"executedBy"`
	ExecutedAt     time.Time          `bson:"executedAt" json:"executedAt"`
	ErrorMessage   string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
