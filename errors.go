package securerelay

import (
	"github.com/securerelay/relay-go/internal/api"
	"github.com/securerelay/relay-go/internal/crypto"
	"github.com/securerelay/relay-go/internal/envelope"
	"github.com/securerelay/relay-go/internal/pipeline"
	"github.com/securerelay/relay-go/internal/records"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMalformedEnvelope is returned when the inbound payload is
	// structurally defective, before any cryptographic work.
	ErrMalformedEnvelope = envelope.ErrMalformed

	// ErrAuthenticationFailed is returned when the authentication tag does
	// not verify. Its message is intentionally identical to
	// ErrDecodingFailed; see the crypto package for the oracle rationale.
	ErrAuthenticationFailed = crypto.ErrAuthenticationFailed

	// ErrDecodingFailed is returned when ciphertext, nonce, or tag cannot
	// be decoded.
	ErrDecodingFailed = crypto.ErrDecodingFailed

	// ErrSignatureInvalid is returned when envelope signature verification
	// fails.
	ErrSignatureInvalid = crypto.ErrSignatureInvalid

	// ErrInvalidJSON is returned when decrypted plaintext is not valid JSON.
	ErrInvalidJSON = records.ErrInvalidJSON

	// ErrInvalidShape is returned when decrypted plaintext is JSON but not
	// an array of records.
	ErrInvalidShape = records.ErrInvalidShape

	// ErrInvalidRecord is returned when a record in the batch fails
	// validation. Match the *RecordError type for the offending index.
	ErrInvalidRecord = records.ErrInvalidRecord

	// ErrSinkRejected is returned when the sink answered with a
	// non-success status. Match the *SinkRejectedError type for details.
	ErrSinkRejected = api.ErrSinkRejected
)

// Stage names the pipeline stage a flow failure is attributed to.
type Stage = pipeline.Stage

// Pipeline stages, in execution order.
const (
	StageFetch    = pipeline.StageFetch
	StageEnvelope = pipeline.StageEnvelope
	StageDecrypt  = pipeline.StageDecrypt
	StageParse    = pipeline.StageParse
	StageValidate = pipeline.StageValidate
	StageForward  = pipeline.StageForward
)

// FlowError is the tagged failure returned by Run. Stage identifies the
// failing stage; Unwrap exposes the originating error for errors.Is and
// errors.As checks against the taxonomy above.
type FlowError = pipeline.StageError

// TransportError represents a network or HTTP failure reaching an
// external collaborator. StatusCode is zero below HTTP.
type TransportError = api.TransportError

// TimeoutError represents an external call that exceeded its bound.
type TimeoutError = api.TimeoutError

// SinkRejectedError carries the sink's status code and message when it
// rejects a forwarded batch, distinguishable from local validation
// failures.
type SinkRejectedError = api.SinkError

// RecordError reports the first invalid record in a batch by 1-based index.
type RecordError = records.RecordError
