// Package webhook posts run summaries to an HTTP endpoint with retries.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client represents a webhook HTTP client
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	logger      *zap.Logger
}

// NewClient creates a new webhook client
func NewClient(config *Config, retryConfig *RetryConfig, logger *zap.Logger) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Per-request timeout
		},
		config:      config,
		retryConfig: retryConfig,
		logger:      logger.Named("webhook"),
	}
}

// Send sends the payload to the webhook with retry logic
func (c *Client) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	log := c.logger.With(zap.String("url", c.config.URL))

	var lastErr error
	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryConfig.backoff(attempt)
			log.Debug("retrying webhook",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.retryConfig.MaxRetries),
				zap.Duration("delay", delay))

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("webhook timeout after %d attempts: %w", attempt, ctx.Err())
			}
		}

		statusCode, err := c.sendRequest(ctx, body)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			log.Debug("webhook delivered", zap.Int("status", statusCode))
			return nil
		}

		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed: %w", attempt+1, err)
		} else {
			lastErr = fmt.Errorf("attempt %d failed with status %d", attempt+1, statusCode)
		}

		if statusCode > 0 && !isRetryableStatus(statusCode) {
			log.Warn("webhook rejected, not retrying", zap.Int("status", statusCode))
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", c.retryConfig.MaxRetries+1, lastErr)
}

func (c *Client) sendRequest(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case "api-key":
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
