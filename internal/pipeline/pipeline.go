// Package pipeline implements the flow orchestrator: the state machine
// that sequences fetch, envelope validation, decryption, parsing, record
// validation, and forwarding, with fail-fast semantics at every stage.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/securerelay/relay-go/internal/api"
	"github.com/securerelay/relay-go/internal/crypto"
	"github.com/securerelay/relay-go/internal/envelope"
	"github.com/securerelay/relay-go/internal/records"
)

// KeyProvider supplies the passphrase and salt fed to key derivation.
// Implementations must be safe for concurrent use; the orchestrator
// consults the provider once per flow and derives a fresh key each time.
type KeyProvider interface {
	Passphrase(ctx context.Context) (passphrase, salt []byte, err error)
}

// Config configures an Orchestrator.
type Config struct {
	// API talks to the payload source and the sink. Required.
	API *api.Client
	// Keys supplies key-derivation inputs. Required unless every payload
	// arrives as a demo batch.
	Keys KeyProvider
	// Strategy forces a decryption strategy; zero value is auto-select.
	Strategy crypto.Strategy
	// AllowDemo permits pre-resolved plaintext record batches. Test and
	// demo deployments only.
	AllowDemo bool
	// SigningKey, when set, is the Ed25519 public key used to verify the
	// envelope signature before decryption.
	SigningKey []byte
	// Logger receives structured flow logs. Nil discards them.
	Logger *slog.Logger
}

// Orchestrator runs the fetch-to-forward pipeline. Each Run is one unit
// of work with no shared mutable state, so a single Orchestrator may run
// concurrent flows.
type Orchestrator struct {
	cfg    Config
	logger *slog.Logger

	// decrypt is swappable so tests can count or fail cipher invocations.
	decrypt func(key, nonce, tag, ciphertext []byte, s crypto.Strategy) ([]byte, error)
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		cfg:     cfg,
		logger:  logger,
		decrypt: crypto.Decrypt,
	}
}

// Result is the outcome of a successful flow.
type Result struct {
	// FlowID identifies this invocation in logs.
	FlowID string
	// Records is the validated, normalized batch, in input order.
	Records []records.Record
	// Ack is the sink's acknowledgment of the forward call.
	Ack *api.SinkAck
}

// Run executes one full flow: fetch, envelope-validate, decrypt, parse,
// validate records, forward. Stages run strictly in sequence; the first
// failure stops the pipeline and is returned as a *StageError naming the
// failing stage. No stage is retried.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	flowID := uuid.NewString()
	logger := o.logger.With("flow_id", flowID)
	start := time.Now()

	logger.InfoContext(ctx, "flow started", "state", StateFetching)
	fetched, err := o.cfg.API.FetchPayload(ctx)
	if err != nil {
		return nil, o.fail(ctx, logger, StageFetch, err)
	}

	logger.InfoContext(ctx, "payload fetched", "state", StateValidatingEnvelope)
	env, err := o.validateEnvelope(fetched)
	if err != nil {
		return nil, o.fail(ctx, logger, StageEnvelope, err)
	}

	logger.InfoContext(ctx, "envelope validated", "state", StateDecrypting)
	plaintext, err := o.decryptEnvelope(ctx, env)
	if err != nil {
		return nil, o.fail(ctx, logger, StageDecrypt, err)
	}

	logger.InfoContext(ctx, "payload decrypted", "state", StateParsing)
	elems, err := records.Decode(plaintext)
	if err != nil {
		return nil, o.fail(ctx, logger, StageParse, err)
	}

	logger.InfoContext(ctx, "payload parsed", "state", StateValidatingRecords, "count", len(elems))
	batch, err := records.ValidateBatch(elems)
	if err != nil {
		return nil, o.fail(ctx, logger, StageValidate, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, o.fail(ctx, logger, StageForward, err)
	}

	logger.InfoContext(ctx, "records validated", "state", StateForwarding, "count", len(batch))
	ack, err := o.cfg.API.ForwardRecords(ctx, batch, time.Now())
	if err != nil {
		return nil, o.fail(ctx, logger, StageForward, err)
	}

	logger.InfoContext(ctx, "flow succeeded",
		"state", StateSucceeded,
		"count", len(batch),
		"duration", time.Since(start),
	)
	return &Result{FlowID: flowID, Records: batch, Ack: ack}, nil
}

func (o *Orchestrator) fail(ctx context.Context, logger *slog.Logger, stage Stage, err error) error {
	logger.WarnContext(ctx, "flow failed", "state", StateFailed, "stage", stage, "error", err)
	return &StageError{Stage: stage, Err: err}
}

func (o *Orchestrator) validateEnvelope(fetched *api.FetchResult) (envelope.Envelope, error) {
	if fetched.Wire == nil {
		// Opaque non-JSON bodies carry no nonce or tag to decrypt with.
		return nil, envelope.ErrMalformed
	}
	return envelope.Validate(fetched.Wire, o.cfg.AllowDemo)
}

// decryptEnvelope dispatches on the envelope variant. A demo batch is
// already plaintext; a cipher envelope is decoded, optionally
// signature-verified, and decrypted with a freshly derived key.
func (o *Orchestrator) decryptEnvelope(ctx context.Context, env envelope.Envelope) ([]byte, error) {
	switch e := env.(type) {
	case envelope.Demo:
		return e.Records, nil
	case envelope.Cipher:
		return o.decryptCipher(ctx, e)
	default:
		return nil, errors.New("unhandled envelope variant")
	}
}

func (o *Orchestrator) decryptCipher(ctx context.Context, env envelope.Cipher) ([]byte, error) {
	ciphertext, err := crypto.DecodeField("ciphertext", env.Ciphertext)
	if err != nil {
		return nil, err
	}
	nonce, err := crypto.DecodeField("nonce", env.Nonce)
	if err != nil {
		return nil, err
	}
	tag, err := crypto.DecodeField("authTag", env.AuthTag)
	if err != nil {
		return nil, err
	}

	if len(o.cfg.SigningKey) > 0 {
		if env.Signature == "" {
			return nil, crypto.ErrSignatureInvalid
		}
		sig, err := crypto.DecodeField("signature", env.Signature)
		if err != nil {
			return nil, err
		}
		if err := crypto.VerifySignature(o.cfg.SigningKey, ciphertext, nonce, tag, sig); err != nil {
			return nil, err
		}
	}

	if o.cfg.Keys == nil {
		return nil, errors.New("no key provider configured")
	}
	passphrase, salt, err := o.cfg.Keys.Passphrase(ctx)
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return o.decrypt(key, nonce, tag, ciphertext, o.cfg.Strategy)
}

// Clear asks the sink to discard its stored records. It does not touch
// the decryption pipeline.
func (o *Orchestrator) Clear(ctx context.Context) (*api.SinkAck, error) {
	ack, err := o.cfg.API.ClearSink(ctx, time.Now())
	if err != nil {
		o.logger.WarnContext(ctx, "clear failed", "error", err)
		return nil, err
	}
	o.logger.InfoContext(ctx, "sink cleared")
	return ack, nil
}

// Health reports sink availability. Probe failures are swallowed and
// reported as unavailable, never propagated as pipeline errors.
func (o *Orchestrator) Health(ctx context.Context) bool {
	return o.cfg.API.Health(ctx)
}
