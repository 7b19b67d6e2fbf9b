// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notion is a minimal client for the Notion REST API covering the
// endpoints the sync tools use: pages, block children and block deletion.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/graemejross/notion-sync-tools/pkg/types"
)

// apiBase is the Notion API root. NewClient copies it into BaseURL so tests
// can point a client at an httptest server.
var apiBase = "https://api.notion.com/v1"

// Client talks to the Notion API. All calls are paced by the configured
// rate-limit delay and retried on transient failures.
type Client struct {
	HTTP    *http.Client
	BaseURL string

	token      string
	apiVersion string
	cfg        types.APIConfig
	log        *zap.Logger
}

// NewClient builds a client from the loaded configuration.
func NewClient(cfg types.Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		HTTP:       &http.Client{Timeout: 60 * time.Second},
		BaseURL:    apiBase,
		token:      cfg.Notion.Token,
		apiVersion: cfg.Notion.APIVersion,
		cfg:        cfg.API,
		log:        log,
	}
}

// APIError is a non-retryable answer from the Notion API.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion API: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("notion API: HTTP %d: %s", e.StatusCode, e.Message)
}

// retryable reports whether the status is worth another attempt: rate
// limiting and server-side failures are, other client errors are not.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// do sends one API call, decoding the response into out when out is
// non-nil. Transient failures (network errors, HTTP 429 and 5xx) are
// retried with exponential backoff up to the configured attempt count; a
// 429 carrying a Retry-After header waits that long instead. Any other
// non-2xx answer returns an *APIError immediately.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	attempts := c.cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.pace(ctx); err != nil {
			return err
		}

		data, status, header, err := c.send(ctx, method, path, payload)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("notion API request: %w", err)
		case status >= 200 && status < 300:
			if out == nil || len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("parsing notion response: %w", err)
			}
			return nil
		default:
			apiErr := newAPIError(status, data)
			if !retryable(status) {
				return apiErr
			}
			lastErr = apiErr
		}

		if attempt == attempts {
			break
		}
		delay := c.backoff(attempt, header)
		c.log.Warn("retrying notion request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// send performs a single HTTP round trip and returns the full body.
func (c *Client) send(ctx context.Context, method, path string, payload []byte) ([]byte, int, http.Header, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return data, resp.StatusCode, resp.Header, nil
}

// pace waits the configured rate-limit delay before a call goes out.
func (c *Client) pace(ctx context.Context) error {
	if c.cfg.RateLimitDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.cfg.RateLimitDelay):
		return nil
	}
}

// backoff computes the wait before retry number attempt+1. The delay
// doubles each attempt; a Retry-After header from the server wins.
func (c *Client) backoff(attempt int, header http.Header) time.Duration {
	if header != nil {
		if after := header.Get("Retry-After"); after != "" {
			if secs, err := strconv.Atoi(after); err == nil && secs >= 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return time.Duration(math.Pow(2, float64(attempt-1))) * c.cfg.RetryDelay
}

// newAPIError decodes the Notion error envelope, falling back to the status
// text when the body is not the expected shape.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{}
	if err := json.Unmarshal(body, e); err != nil || e.Message == "" {
		e.Message = http.StatusText(status)
	}
	e.StatusCode = status
	return e
}
