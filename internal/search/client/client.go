// Package client posts search requests to the external automation webhook.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"prospectmap_backend/platform/logger"

	"github.com/google/uuid"
)

// Payload is the body expected by the automation endpoint.
type Payload struct {
	Location          string    `json:"location"`
	EstablishmentType string    `json:"establishment_type"`
	ResultCount       int       `json:"result_count"`
	OwnerID           uuid.UUID `json:"ownerId"`
}

// StatusError reports a non-2xx answer.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search webhook returned status %d", e.StatusCode)
}

// WebhookClient sends one POST per search. It never retries.
type WebhookClient struct {
	url  string
	http *http.Client
	log  *logger.Logger
}

func New(url string, timeout time.Duration, log *logger.Logger) *WebhookClient {
	return &WebhookClient{
		url:  url,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Send posts p and succeeds only on a 2xx status. The response body is
// drained and discarded.
func (c *WebhookClient) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		c.log.WebhookCall(c.url, 0, latency, err)
		return fmt.Errorf("post search webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		c.log.WebhookCall(c.url, resp.StatusCode, latency, statusErr)
		return statusErr
	}
	c.log.WebhookCall(c.url, resp.StatusCode, latency, nil)
	return nil
}
