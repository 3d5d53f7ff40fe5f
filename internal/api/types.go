package api

import (
	"encoding/json"
	"time"

	"github.com/securerelay/relay-go/internal/envelope"
	"github.com/securerelay/relay-go/internal/records"
)

// FetchResult is the outcome of fetching from the payload source. Exactly
// one of Wire or Raw is populated: Wire when the body parsed as the source's
// JSON shape, Raw when the body was opaque bytes.
type FetchResult struct {
	Wire *envelope.Wire
	Raw  []byte
}

// fetchResponse is the source's JSON wire shape.
type fetchResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    *envelope.Wire  `json:"data"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// forwardRequest is the sink's processing request shape.
type forwardRequest struct {
	Records   []records.Record `json:"records"`
	Timestamp string           `json:"timestamp"`
	Action    string           `json:"action"`
}

// clearRequest asks the sink to discard its stored records.
type clearRequest struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// sinkResponse is the sink's response shape.
type sinkResponse struct {
	Status  int    `json:"status,omitempty"`
	Body    string `json:"body,omitempty"`
	Message string `json:"message,omitempty"`
}

// SinkAck acknowledges a successful sink call.
type SinkAck struct {
	StatusCode int
	Message    string
	At         time.Time
}
