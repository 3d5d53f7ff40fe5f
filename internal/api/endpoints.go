package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/securerelay/relay-go/internal/records"
)

// FetchPayload retrieves the opaque encrypted payload from the source.
// A non-2xx response or timeout surfaces as an error; an unparseable body
// is returned in FetchResult.Raw for the envelope stage to judge.
func (c *Client) FetchPayload(ctx context.Context) (*FetchResult, error) {
	if c.sourceURL == "" {
		return nil, fmt.Errorf("source URL is not configured")
	}

	status, body, err := c.do(ctx, "fetch", http.MethodGet, c.sourceURL, c.timeout, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &TransportError{Operation: "fetch", URL: c.sourceURL, StatusCode: status}
	}

	var resp fetchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// Not the JSON shape; hand the raw bytes to envelope validation.
		return &FetchResult{Raw: body}, nil
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "source reported failure"
		}
		return nil, &TransportError{Operation: "fetch", URL: c.sourceURL, StatusCode: status, Err: fmt.Errorf("%s", msg)}
	}

	return &FetchResult{Wire: resp.Data}, nil
}

// ForwardRecords posts a validated record batch to the sink for processing.
func (c *Client) ForwardRecords(ctx context.Context, batch []records.Record, ts time.Time) (*SinkAck, error) {
	req := forwardRequest{
		Records:   batch,
		Timestamp: ts.UTC().Format(time.RFC3339),
		Action:    "process",
	}
	return c.postSink(ctx, "forward", req)
}

// ClearSink asks the sink to discard its stored records. Independent of
// the decryption pipeline.
func (c *Client) ClearSink(ctx context.Context, ts time.Time) (*SinkAck, error) {
	req := clearRequest{
		Action:    "clear",
		Timestamp: ts.UTC().Format(time.RFC3339),
	}
	return c.postSink(ctx, "clear", req)
}

func (c *Client) postSink(ctx context.Context, operation string, body any) (*SinkAck, error) {
	status, data, err := c.do(ctx, operation, http.MethodPost, c.sinkURL, c.timeout, body)
	if err != nil {
		return nil, err
	}

	var resp sinkResponse
	// Sink bodies are best-effort JSON; a plain-text body still yields a
	// usable ack or error below.
	_ = json.Unmarshal(data, &resp)

	if status < 200 || status >= 300 {
		msg := resp.Message
		if msg == "" {
			msg = resp.Body
		}
		return nil, &SinkError{StatusCode: status, Message: msg}
	}

	return &SinkAck{StatusCode: status, Message: resp.Message, At: time.Now().UTC()}, nil
}

// Health probes the sink for reachability. Failures are swallowed: any
// response from the host counts as available, transport errors and server
// errors do not. Never returns an error.
func (c *Client) Health(ctx context.Context) bool {
	status, _, err := c.do(ctx, "health", http.MethodGet, c.sinkURL, c.healthTimeout, nil)
	if err != nil {
		return false
	}
	return status < 500
}
