package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EMBlueNotifier delivers events through the EMBlue HTTP API
type EMBlueNotifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewEMBlueNotifier creates a new EMBlueNotifier
func NewEMBlueNotifier(baseURL, apiKey string) *EMBlueNotifier {
	return &EMBlueNotifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type emblueEvent struct {
	UserID  string                 `json:"userId"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	SentAt  time.Time              `json:"sentAt"`
}

// Notify posts the event to the EMBlue events endpoint
func (n *EMBlueNotifier) Notify(ctx context.Context, userID string, event Event, payload map[string]interface{}) error {
	body, err := json.Marshal(emblueEvent{
		UserID:  userID,
		Event:   string(event),
		Payload: payload,
		SentAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/api/events", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emblue returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
