package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Strategy selects how Decrypt processes ciphertext.
type Strategy int

const (
	// StrategyAuto picks buffered below StreamThreshold, streamed at or above.
	StrategyAuto Strategy = iota
	// StrategyBuffered decrypts the whole ciphertext in one operation.
	// Lowest latency; allocates the full plaintext up front.
	StrategyBuffered
	// StrategyStreamed consumes ciphertext in ChunkSize chunks, strictly in
	// order, and finalizes (verifying the tag) only after the last chunk.
	StrategyStreamed
)

// String returns the strategy name for logging and debugging.
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyBuffered:
		return "buffered"
	case StrategyStreamed:
		return "streamed"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Decrypt authenticates and decrypts an AES-256-GCM ciphertext with a
// detached tag. The tag must verify before any plaintext is returned; a
// mismatch fails the whole operation with ErrAuthenticationFailed and no
// partial plaintext.
//
// Buffered and streamed strategies are observably equivalent: identical
// input bytes, key, nonce, and tag produce identical output bytes or an
// identical failure.
func Decrypt(key, nonce, tag, ciphertext []byte, strategy Strategy) ([]byte, error) {
	aead, err := newGCM(key, nonce, tag)
	if err != nil {
		return nil, err
	}

	switch strategy {
	case StrategyAuto:
		if len(ciphertext) < StreamThreshold {
			return openBuffered(aead, nonce, tag, ciphertext)
		}
		return openStreamed(aead, nonce, tag, ciphertext)
	case StrategyBuffered:
		return openBuffered(aead, nonce, tag, ciphertext)
	case StrategyStreamed:
		return openStreamed(aead, nonce, tag, ciphertext)
	default:
		return nil, fmt.Errorf("unknown decryption strategy %d", int(strategy))
	}
}

// openBuffered performs a single Open over ciphertext||tag.
func openBuffered(aead cipher.AEAD, nonce, tag, ciphertext []byte) ([]byte, error) {
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	return open(aead, nonce, sealed)
}

// openStreamed reassembles the ciphertext chunk by chunk before a single
// finalizing Open. GCM cannot release authenticated plaintext until the tag
// has been checked over the whole message, so the chunks are buffered rather
// than yielded; the win over buffered is bounded per-step copy size, not
// bounded total memory.
func openStreamed(aead cipher.AEAD, nonce, tag, ciphertext []byte) ([]byte, error) {
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	for off := 0; off < len(ciphertext); off += ChunkSize {
		end := off + ChunkSize
		if end > len(ciphertext) {
			end = len(ciphertext)
		}
		sealed = append(sealed, ciphertext[off:end]...)
	}
	sealed = append(sealed, tag...)
	return open(aead, nonce, sealed)
}

func open(aead cipher.AEAD, nonce, sealed []byte) ([]byte, error) {
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		// Never wrap the underlying error: its text could distinguish a
		// tag failure from other causes.
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// Encrypt is the AES-256-GCM counterpart to Decrypt, returning ciphertext
// and a detached tag. Used by tests and the relayctl seal helper.
func Encrypt(key, nonce, plaintext []byte) (ciphertext, tag []byte, err error) {
	if len(key) != KeySize {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagSize
	return sealed[:split], sealed[split:], nil
}

func newGCM(key, nonce, tag []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}
	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidTagSize, len(tag), TagSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
