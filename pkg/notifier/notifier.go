// Package notifier is the fire-and-forget notification sink. State
// transitions call it after they commit; a delivery failure is logged by the
// caller and never rolls anything back.
package notifier

import "context"

// Event identifies what happened to the notified user
type Event string

const (
	EventAccountApproved     Event = "ACCOUNT_APPROVED"
	EventAccountRejected     Event = "ACCOUNT_REJECTED"
	EventDealApproved        Event = "DEAL_APPROVED"
	EventDealRejected        Event = "DEAL_REJECTED"
	EventRedemptionRequested Event = "REDEMPTION_REQUESTED"
	EventRedemptionApproved  Event = "REDEMPTION_APPROVED"
	EventRedemptionRejected  Event = "REDEMPTION_REJECTED"
	EventShipmentUpdated     Event = "SHIPMENT_UPDATED"
	EventGrandPrizeQualified Event = "GRAND_PRIZE_QUALIFIED"
	EventDrawWinner          Event = "DRAW_WINNER"
)

// Notifier delivers an event to a user through some external channel
type Notifier interface {
	Notify(ctx context.Context, userID string, event Event, payload map[string]interface{}) error
}
