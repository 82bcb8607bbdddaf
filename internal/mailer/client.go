// Package mailer is a thin client for the hosted transactional email API.
// Delivery is best-effort: callers on the save path must treat a send
// failure as a logged event, never as a reason to fail the save.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limiting: the email API allows 10 requests per second
	rateLimit = 10
	rateBurst = 20

	// Retry configuration
	maxRetries   = 3
	initialDelay = 500 * time.Millisecond
	maxDelay     = 8 * time.Second
)

// Message is a single outbound email.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
	From    string   `json:"from"`
}

// Sender is the minimal surface services depend on, so tests can swap in a
// recording fake.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client handles email API requests with rate limiting and retry logic
type Client struct {
	baseURL     string
	apiKey      string
	from        string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new email API client
func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		from:        from,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send delivers one message through the email API.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return fmt.Errorf("email API key is not configured")
	}
	if msg.From == "" {
		msg.From = c.from
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	delay := initialDelay
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err == nil {
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
			// Retry on rate limiting and transient server errors
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(respBody))
			}
			err = fmt.Errorf("email API returned status %d", resp.StatusCode)
		}

		if attempt == maxRetries {
			return fmt.Errorf("email send failed after %d retries: %w", maxRetries, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return nil
}
