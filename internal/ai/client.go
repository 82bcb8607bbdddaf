// Package ai wraps the hosted generative-AI REST API used for bio
// generation, admin insight Q&A, and content moderation scans.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limiting: stay well under the hosted API quota
	rateLimit = 2
	rateBurst = 4

	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

// Client handles generative API requests with rate limiting and retry logic
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new generative API client
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// request/response shapes for the generateContent endpoint

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, prompt string, cfg *generationConfig) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("generative API key is not configured")
	}

	payload := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: cfg,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	delay := initialDelay
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err == nil {
			respBody, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK && readErr == nil {
				var decoded generateResponse
				if err := json.Unmarshal(respBody, &decoded); err != nil {
					return "", fmt.Errorf("failed to decode response: %w", err)
				}
				if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
					return "", fmt.Errorf("generative API returned no candidates")
				}
				return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
			}
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				return "", fmt.Errorf("generative API returned status %d: %s", resp.StatusCode, string(respBody))
			}
			err = fmt.Errorf("generative API returned status %d", resp.StatusCode)
		}

		if attempt == maxRetries {
			return "", fmt.Errorf("generate failed after %d retries: %w", maxRetries, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return "", nil
}

// GenerateBio produces a short third-person biography for a new profile.
func (c *Client) GenerateBio(ctx context.Context, name, genre string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a warm, professional biography of at most 80 words, in the third person, "+
			"for %s, a book collector and expert in the %q genre. "+
			"Return only the biography text, no preamble.", name, genre)
	return c.generate(ctx, prompt, nil)
}

// RosterEntry is the per-expert summary handed to the insights prompt.
type RosterEntry struct {
	Name           string `json:"name"`
	Genre          string `json:"genre"`
	Tier           string `json:"subscription_tier"`
	Status         string `json:"status"`
	BookCount      int    `json:"book_count"`
	AvailableBooks int    `json:"available_books"`
	Country        string `json:"country,omitempty"`
}

// AdminInsights answers a free-form admin question over a roster summary.
func (c *Client) AdminInsights(ctx context.Context, question string, roster []RosterEntry) (string, error) {
	rosterJSON, err := json.Marshal(roster)
	if err != nil {
		return "", fmt.Errorf("failed to encode roster: %w", err)
	}
	prompt := fmt.Sprintf(`You are an analytics assistant for a book marketplace.
Answer the administrator's question using only the roster data below.
Be concise and factual.

ROSTER DATA (JSON):
%s

QUESTION:
%s`, string(rosterJSON), question)
	return c.generate(ctx, prompt, nil)
}
