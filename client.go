package securerelay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/securerelay/relay-go/internal/api"
	"github.com/securerelay/relay-go/internal/crypto"
	"github.com/securerelay/relay-go/internal/pipeline"
	"github.com/securerelay/relay-go/internal/records"
)

// UserRecord is a validated, normalized user record: name trimmed, email
// trimmed and lower-cased, phone trimmed, all bounds-checked.
type UserRecord = records.Record

// FlowResult is the outcome of a successful flow.
type FlowResult struct {
	// FlowID identifies the invocation in logs.
	FlowID string
	// Records is the validated batch that was forwarded, in input order.
	Records []UserRecord
	// ForwardedAt is when the sink acknowledged the batch.
	ForwardedAt time.Time
}

// Relay runs the authenticated decryption and record-validation pipeline:
// fetch an encrypted payload from the source, validate and decrypt it,
// validate the records, and forward them to the downstream sink.
//
// A Relay holds no mutable state between flows; Run, Clear, and Health
// may be called concurrently.
type Relay struct {
	orch *pipeline.Orchestrator
}

// New creates a relay. A sink URL is always required; a source URL is
// required to Run. Key material must come from a KeyProvider unless demo
// mode is enabled.
func New(opts ...Option) (*Relay, error) {
	cfg := clientConfig{
		strategy: StrategyAuto,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.keys == nil && !cfg.demoMode {
		return nil, errors.New("a key provider is required unless demo mode is enabled")
	}

	strategy, err := decryptionStrategy(cfg.strategy)
	if err != nil {
		return nil, err
	}

	apiClient, err := api.NewClient(api.Config{
		SourceURL:     cfg.sourceURL,
		SinkURL:       cfg.sinkURL,
		AuthToken:     cfg.authToken,
		HTTPClient:    cfg.httpClient,
		Timeout:       cfg.timeout,
		HealthTimeout: cfg.healthTimeout,
	})
	if err != nil {
		return nil, err
	}

	orch := pipeline.New(pipeline.Config{
		API:        apiClient,
		Keys:       cfg.keys,
		Strategy:   strategy,
		AllowDemo:  cfg.demoMode,
		SigningKey: cfg.signingKey,
		Logger:     cfg.logger,
	})

	return &Relay{orch: orch}, nil
}

// Run executes one full fetch-to-forward flow. On failure it returns a
// *FlowError naming the failing stage; no stage is retried and no later
// stage executes. Cancel the context to abandon the flow; in-flight
// external calls are cancelled promptly and partial results discarded.
func (r *Relay) Run(ctx context.Context) (*FlowResult, error) {
	res, err := r.orch.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &FlowResult{
		FlowID:      res.FlowID,
		Records:     res.Records,
		ForwardedAt: res.Ack.At,
	}, nil
}

// Clear asks the sink to discard its stored records. It is independent of
// the decryption pipeline.
func (r *Relay) Clear(ctx context.Context) error {
	_, err := r.orch.Clear(ctx)
	return err
}

// Health reports whether the sink is reachable. Probe failures are
// reported as false, never as errors.
func (r *Relay) Health(ctx context.Context) bool {
	return r.orch.Health(ctx)
}

func decryptionStrategy(s DecryptionStrategy) (crypto.Strategy, error) {
	switch s {
	case StrategyAuto, "":
		return crypto.StrategyAuto, nil
	case StrategyBuffered:
		return crypto.StrategyBuffered, nil
	case StrategyStreamed:
		return crypto.StrategyStreamed, nil
	default:
		return 0, fmt.Errorf("unknown decryption strategy %q", s)
	}
}
