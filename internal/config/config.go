// Package config loads command configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the relay commands.
type Config struct {
	// Port is the relayd listen port.
	Port string
	// SourceURL is the payload source endpoint.
	SourceURL string
	// SinkURL is the downstream sink endpoint.
	SinkURL string
	// APIToken is the fixed bearer token relayd requires on inbound
	// requests. Empty disables the check (local development only).
	APIToken string
	// KeyProvider selects the key material source: env, keyring, or demo.
	KeyProvider string
	// KeyringService and KeyringAccount locate the passphrase in the OS
	// keyring when KeyProvider is "keyring".
	KeyringService string
	KeyringAccount string
	// KeySalt is the key-derivation salt for the keyring provider.
	KeySalt string
	// SigningKey is the source's Ed25519 public key, hex or base64 encoded.
	// Empty disables signature verification.
	SigningKey string
	// Strategy is the decryption strategy: auto, buffered, or streamed.
	Strategy string
	// DemoMode permits pre-resolved plaintext record payloads.
	DemoMode bool
	// LogLevel is DEBUG, INFO, WARN, or ERROR.
	LogLevel string
}

// Load reads configuration from a .env file (if present; existing
// environment variables win) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	demo, err := boolEnv("RELAY_DEMO_MODE", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           getEnv("RELAY_PORT", "8080"),
		SourceURL:      os.Getenv("RELAY_SOURCE_URL"),
		SinkURL:        os.Getenv("RELAY_SINK_URL"),
		APIToken:       os.Getenv("RELAY_API_TOKEN"),
		KeyProvider:    getEnv("RELAY_KEY_PROVIDER", "env"),
		KeyringService: getEnv("RELAY_KEYRING_SERVICE", "securerelay"),
		KeyringAccount: getEnv("RELAY_KEYRING_ACCOUNT", "passphrase"),
		KeySalt:        os.Getenv("RELAY_KEY_SALT"),
		SigningKey:     os.Getenv("RELAY_SIGNING_KEY"),
		Strategy:       getEnv("RELAY_STRATEGY", "auto"),
		DemoMode:       demo,
		LogLevel:       getEnv("RELAY_LOG_LEVEL", "INFO"),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func boolEnv(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
