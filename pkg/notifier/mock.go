package notifier

import (
	"context"
	"sync"
)

// SentEvent is one recorded notification
type SentEvent struct {
	UserID  string
	Event   Event
	Payload map[string]interface{}
}

// MockNotifier records notifications in memory, for tests and local runs
type MockNotifier struct {
	mu     sync.Mutex
	events []SentEvent
	// Err, when set, is returned from every Notify call
	Err error
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the event
func (n *MockNotifier) Notify(_ context.Context, userID string, event Event, payload map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.events = append(n.events, SentEvent{UserID: userID, Event: event, Payload: payload})
	return nil
}

// Sent returns a copy of everything recorded so far
func (n *MockNotifier) Sent() []SentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentEvent, len(n.events))
	copy(out, n.events)
	return out
}
