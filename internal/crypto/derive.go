package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// DeriveKey derives a 32-byte AES key from a passphrase and salt using
// PBKDF2-HMAC-SHA-256 with PBKDF2Iterations rounds.
//
// The function is pure and safe for concurrent use. Callers own the
// returned key material exclusively; it is recomputed for every
// decryption and must never be cached, persisted, or logged.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if len(salt) < SaltMinSize {
		return nil, ErrSaltTooShort
	}

	return pbkdf2.Key(passphrase, salt, PBKDF2Iterations, KeySize, sha256.New), nil
}
