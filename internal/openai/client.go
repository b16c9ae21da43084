// Package openai is a minimal client for OpenAI-compatible chat completion
// endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Errors returned before any request is sent
var (
	ErrMissingAPIKey    = errors.New("no API key configured")
	ErrCallLimitReached = errors.New("maximum API calls exceeded")
)

// Client represents a chat completions API client
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	userAgent  string
	maxCalls   int

	mu    sync.Mutex
	stats ClientStats
}

// ClientConfig holds configuration for the client
type ClientConfig struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	MaxCalls  int // 0 means unlimited
	UserAgent string
	// HTTPClient overrides the transport; Timeout is ignored when set
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "shellassist/1.0"
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     config.APIKey,
		baseURL:    config.BaseURL,
		userAgent:  config.UserAgent,
		maxCalls:   config.MaxCalls,
	}
}

// errorf records a failed call and builds its error
func (c *Client) errorf(format string, args ...any) (*ChatCompletionResponse, error) {
	c.mu.Lock()
	c.stats.AddError()
	c.mu.Unlock()
	return nil, fmt.Errorf(format, args...)
}

// ChatCompletion sends a chat completion request
func (c *Client) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if c.apiKey == "" {
		return c.errorf("%w", ErrMissingAPIKey)
	}
	c.mu.Lock()
	count := c.stats.RequestCount
	c.mu.Unlock()
	if c.maxCalls > 0 && count >= c.maxCalls {
		return c.errorf("%w (%d/%d)", ErrCallLimitReached, count, c.maxCalls)
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return c.errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return c.errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return c.errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error.Message == "" {
			return c.errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return c.errorf("API error (status %d): %s (type: %s)", resp.StatusCode, errorResp.Error.Message, errorResp.Error.Type)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return c.errorf("failed to unmarshal response: %w", err)
	}

	c.mu.Lock()
	c.stats.AddRequest(duration, chatResp.Usage)
	c.mu.Unlock()

	return &chatResp, nil
}

// GetStats returns current client statistics
func (c *Client) GetStats() ClientStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
