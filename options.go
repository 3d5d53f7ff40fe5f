package securerelay

import (
	"log/slog"
	"net/http"
	"time"
)

// DecryptionStrategy selects how ciphertext is decrypted.
type DecryptionStrategy string

const (
	// StrategyAuto decrypts buffered below 1 MiB ciphertext, streamed at or above.
	StrategyAuto DecryptionStrategy = "auto"
	// StrategyBuffered decrypts the whole ciphertext in one operation.
	StrategyBuffered DecryptionStrategy = "buffered"
	// StrategyStreamed consumes ciphertext in 64 KiB chunks, in order,
	// finalizing (and verifying the tag) after the last chunk.
	StrategyStreamed DecryptionStrategy = "streamed"
)

// clientConfig holds configuration for the relay.
type clientConfig struct {
	sourceURL     string
	sinkURL       string
	authToken     string
	httpClient    *http.Client
	timeout       time.Duration
	healthTimeout time.Duration
	strategy      DecryptionStrategy
	keys          KeyProvider
	demoMode      bool
	signingKey    []byte
	logger        *slog.Logger
}

// Option configures the relay.
type Option func(*clientConfig)

// WithSourceURL sets the payload source endpoint.
func WithSourceURL(url string) Option {
	return func(c *clientConfig) {
		c.sourceURL = url
	}
}

// WithSinkURL sets the downstream sink endpoint.
func WithSinkURL(url string) Option {
	return func(c *clientConfig) {
		c.sinkURL = url
	}
}

// WithAuthToken sets a bearer token sent on every collaborator request.
func WithAuthToken(token string) Option {
	return func(c *clientConfig) {
		c.authToken = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout bounds fetch and forward calls. Default 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithHealthTimeout bounds the sink health probe. Default 5s.
func WithHealthTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.healthTimeout = timeout
	}
}

// WithDecryptionStrategy forces a decryption strategy. Default auto.
func WithDecryptionStrategy(strategy DecryptionStrategy) Option {
	return func(c *clientConfig) {
		c.strategy = strategy
	}
}

// WithKeyProvider sets the source of key-derivation material.
func WithKeyProvider(p KeyProvider) Option {
	return func(c *clientConfig) {
		c.keys = p
	}
}

// WithDemoMode permits payloads that carry pre-resolved plaintext records
// instead of ciphertext. Intended for tests and demos where the source's
// key is not actually known; never enable it in a hardened build.
func WithDemoMode() Option {
	return func(c *clientConfig) {
		c.demoMode = true
	}
}

// WithSigningKey sets the source's Ed25519 public key. When set, every
// cipher envelope must carry a valid signature, verified before decryption.
func WithSigningKey(publicKey []byte) Option {
	return func(c *clientConfig) {
		c.signingKey = publicKey
	}
}

// WithLogger sets the structured logger for flow logs. The relay is
// silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
