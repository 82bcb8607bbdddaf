// Package payment wraps the PayPal Orders API. Only order creation and
// capture are implemented; everything past capture (refunds, disputes,
// webhooks) stays with the payment provider.
package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var ErrPaymentNotCompleted = errors.New("payment not completed")

const (
	rateLimit = 5
	rateBurst = 10
)

// Verifier is the surface the billing handler depends on.
type Verifier interface {
	CreateOrder(ctx context.Context, value, currency string) (string, error)
	CaptureOrder(ctx context.Context, orderID string) error
}

// Client handles PayPal API requests.
type Client struct {
	baseURL     string
	clientID    string
	secret      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new PayPal API client
func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		baseURL:     baseURL,
		clientID:    clientID,
		secret:      secret,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// accessToken obtains an OAuth token via the client-credentials grant.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.secret == "" {
		return "", fmt.Errorf("payment API credentials are not configured")
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	return decoded.AccessToken, nil
}

// CreateOrder creates a one-time order for the premium upgrade and returns
// the provider order ID for client-side approval.
func (c *Client) CreateOrder(ctx context.Context, value, currency string) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{"amount": map[string]string{"currency_code": currency, "value": value}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create order failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("create order returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}
	return decoded.ID, nil
}

// CaptureOrder captures an approved order and verifies it completed.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return errors.New("order ID is required to capture payment")
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("capture returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to decode capture response: %w", err)
	}
	if decoded.Status != "COMPLETED" {
		return fmt.Errorf("%w: status %s", ErrPaymentNotCompleted, decoded.Status)
	}
	return nil
}
