package securerelay

import (
	"context"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/securerelay/relay-go/internal/pipeline"
)

// KeyProvider supplies the passphrase and salt fed to key derivation.
// The relay consults the provider once per flow and derives a fresh key
// each time; implementations must be safe for concurrent use.
type KeyProvider = pipeline.KeyProvider

// Default environment variable names read by EnvKeyProvider.
const (
	DefaultPassphraseVar = "RELAY_PASSPHRASE"
	DefaultSaltVar       = "RELAY_KEY_SALT"
)

// EnvKeyProvider reads the passphrase and salt from environment variables
// on every call, so rotated values take effect without a restart.
type EnvKeyProvider struct {
	// PassphraseVar is the variable holding the passphrase.
	// Empty means DefaultPassphraseVar.
	PassphraseVar string
	// SaltVar is the variable holding the salt. Empty means DefaultSaltVar.
	SaltVar string
}

// Passphrase implements KeyProvider.
func (p *EnvKeyProvider) Passphrase(_ context.Context) ([]byte, []byte, error) {
	passVar := p.PassphraseVar
	if passVar == "" {
		passVar = DefaultPassphraseVar
	}
	saltVar := p.SaltVar
	if saltVar == "" {
		saltVar = DefaultSaltVar
	}

	pass := os.Getenv(passVar)
	if pass == "" {
		return nil, nil, fmt.Errorf("environment variable %s is not set", passVar)
	}
	salt := os.Getenv(saltVar)
	if salt == "" {
		return nil, nil, fmt.Errorf("environment variable %s is not set", saltVar)
	}
	return []byte(pass), []byte(salt), nil
}

// KeyringKeyProvider reads the passphrase from the OS keyring. The salt is
// not secret and is supplied at construction.
type KeyringKeyProvider struct {
	// Service is the keyring service name.
	Service string
	// Account is the keyring account the passphrase is stored under.
	Account string
	// Salt is the key-derivation salt.
	Salt []byte
}

// Passphrase implements KeyProvider.
func (p *KeyringKeyProvider) Passphrase(_ context.Context) ([]byte, []byte, error) {
	pass, err := keyring.Get(p.Service, p.Account)
	if err != nil {
		return nil, nil, fmt.Errorf("keyring lookup for %s/%s: %w", p.Service, p.Account, err)
	}
	return []byte(pass), p.Salt, nil
}

// StaticKeyProvider returns fixed key material. Useful for tests; never
// for production secrets.
type StaticKeyProvider struct {
	PassphraseBytes []byte
	SaltBytes       []byte
}

// Passphrase implements KeyProvider.
func (p *StaticKeyProvider) Passphrase(_ context.Context) ([]byte, []byte, error) {
	return p.PassphraseBytes, p.SaltBytes, nil
}

// DemoKeyProvider returns the fixed demonstration passphrase and salt.
// It exists so the demo behavior is an explicit, clearly labeled choice;
// a hardened deployment must configure EnvKeyProvider, KeyringKeyProvider,
// or its own provider instead.
func DemoKeyProvider() KeyProvider {
	return &StaticKeyProvider{
		PassphraseBytes: []byte("securerelay-demo-passphrase"),
		SaltBytes:       []byte("securerelay-demo-salt"),
	}
}
