package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"carshine/internal/app/store/entity"
)

// WebhookClient delivers reservation payloads to the workflow webhook.
// The client timeout bounds the call so a slow endpoint cannot stall
// the booking response.
type WebhookClient struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewWebhookClient creates a relay client for the given endpoint. The
// bearer token is optional; when empty no Authorization header is sent.
func NewWebhookClient(url, token string, timeoutSec int) *WebhookClient {
	return &WebhookClient{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// webhookResponse is the subset of the workflow engine's reply we care
// about: the booking id it assigned.
type webhookResponse struct {
	ID string `json:"id"`
}

// Deliver posts the normalized payload. A non-2xx reply is an error;
// the caller decides whether that fails the booking (it does not).
func (c *WebhookClient) Deliver(ctx context.Context, payload *entity.ReservationPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reservation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var wr webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		// A 2xx with an unparseable body still counts as delivered.
		return "", nil
	}

	return wr.ID, nil
}
