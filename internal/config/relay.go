package config

import (
	"fmt"
	"log/slog"

	securerelay "github.com/securerelay/relay-go"
	"github.com/securerelay/relay-go/internal/crypto"
)

// BuildRelay constructs a relay client from loaded configuration.
func BuildRelay(cfg *Config, logger *slog.Logger) (*securerelay.Relay, error) {
	opts := []securerelay.Option{
		securerelay.WithSourceURL(cfg.SourceURL),
		securerelay.WithSinkURL(cfg.SinkURL),
		securerelay.WithDecryptionStrategy(securerelay.DecryptionStrategy(cfg.Strategy)),
		securerelay.WithLogger(logger),
	}

	keys, err := keyProvider(cfg)
	if err != nil {
		return nil, err
	}
	if keys != nil {
		opts = append(opts, securerelay.WithKeyProvider(keys))
	}

	if cfg.DemoMode {
		opts = append(opts, securerelay.WithDemoMode())
	}

	if cfg.SigningKey != "" {
		pub, err := crypto.DecodeField("signing key", cfg.SigningKey)
		if err != nil {
			return nil, fmt.Errorf("invalid RELAY_SIGNING_KEY: %w", err)
		}
		opts = append(opts, securerelay.WithSigningKey(pub))
	}

	return securerelay.New(opts...)
}

func keyProvider(cfg *Config) (securerelay.KeyProvider, error) {
	switch cfg.KeyProvider {
	case "env":
		return &securerelay.EnvKeyProvider{}, nil
	case "keyring":
		if cfg.KeySalt == "" {
			return nil, fmt.Errorf("RELAY_KEY_SALT is required with the keyring provider")
		}
		return &securerelay.KeyringKeyProvider{
			Service: cfg.KeyringService,
			Account: cfg.KeyringAccount,
			Salt:    []byte(cfg.KeySalt),
		}, nil
	case "demo":
		return securerelay.DemoKeyProvider(), nil
	case "none":
		// Demo-mode deployments that never see ciphertext.
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown key provider %q", cfg.KeyProvider)
	}
}
