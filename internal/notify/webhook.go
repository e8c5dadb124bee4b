package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// webhookChannelImpl posts notifications as JSON to a chat webhook. The
// channel owns its own timeout; the composite imposes none.
type webhookChannelImpl struct {
	url    string
	client *http.Client
}

func NewWebhookChannel(url string) NotificationService {
	return &webhookChannelImpl{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Recipient string            `json:"recipient"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
}

func (c *webhookChannelImpl) Notify(ctx context.Context, recipient, message string, meta map[string]string) error {
	body, err := json.Marshal(webhookPayload{
		Recipient: recipient,
		Message:   message,
		Meta:      meta,
	})
	if err != nil {
		return fmt.Errorf("webhook channel: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook channel: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook channel: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook channel: unexpected status %d", resp.StatusCode)
	}
	return nil
}
