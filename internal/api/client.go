package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default bounds for external calls. Fetch and forward share DefaultTimeout;
// the health probe uses the shorter DefaultHealthTimeout.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultHealthTimeout = 5 * time.Second
)

// maxResponseBody bounds how much of a collaborator response is read.
const maxResponseBody = 8 << 20 // 8 MiB

// Config configures the external-collaborator client.
type Config struct {
	// SourceURL is the payload source endpoint. Required for FetchPayload.
	SourceURL string
	// SinkURL is the downstream sink endpoint. Required.
	SinkURL string
	// AuthToken, when set, is sent as a bearer token on every request.
	AuthToken string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// Timeout bounds fetch and forward calls. Zero means DefaultTimeout.
	Timeout time.Duration
	// HealthTimeout bounds the health probe. Zero means DefaultHealthTimeout.
	HealthTimeout time.Duration
}

// Client talks to the relay's external collaborators: the payload source
// and the downstream sink. It is stateless between calls and safe for
// concurrent use. No call is retried; retry policy belongs to the caller.
type Client struct {
	sourceURL     string
	sinkURL       string
	authToken     string
	httpClient    *http.Client
	timeout       time.Duration
	healthTimeout time.Duration
}

// NewClient creates a collaborator client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.SinkURL == "" {
		return nil, fmt.Errorf("sink URL is required")
	}

	c := &Client{
		sourceURL:     cfg.SourceURL,
		sinkURL:       cfg.SinkURL,
		authToken:     cfg.AuthToken,
		httpClient:    cfg.HTTPClient,
		timeout:       cfg.Timeout,
		healthTimeout: cfg.HealthTimeout,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.healthTimeout == 0 {
		c.healthTimeout = DefaultHealthTimeout
	}
	return c, nil
}

// Timeout reports the bound applied to fetch and forward calls.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// do performs one bounded HTTP call. The per-call deadline is layered on
// the caller's context so cancellation still propagates promptly.
func (c *Client) do(ctx context.Context, operation, method, url string, timeout time.Duration, body any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, &TimeoutError{Operation: operation, Timeout: timeout}
		}
		return 0, nil, &TransportError{Operation: operation, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, &TimeoutError{Operation: operation, Timeout: timeout}
		}
		return 0, nil, &TransportError{Operation: operation, URL: url, Err: err}
	}

	return resp.StatusCode, data, nil
}
