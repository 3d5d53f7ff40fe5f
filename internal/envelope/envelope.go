// Package envelope validates inbound payload envelopes before any
// cryptographic work is attempted.
//
// An envelope is a tagged sum type with exactly two variants: Cipher, the
// normal ciphertext/nonce/tag triple, and Demo, a pre-resolved batch of
// already-plaintext records used when the source's key is not actually
// known. The variant is chosen by explicit configuration, never inferred
// from payload shape.
package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/securerelay/relay-go/internal/crypto"
)

// Envelope is the validated inbound payload. Implementations are Cipher
// and Demo; the marker method keeps the set closed so dispatch stays
// exhaustive.
type Envelope interface {
	envelope()
}

// Cipher is an encrypted envelope. Fields hold the wire encoding (hex or
// base64) untouched; decoding is deferred to the decryption stage. All of
// Ciphertext, Nonce, and AuthTag are non-empty.
type Cipher struct {
	Ciphertext string
	Nonce      string
	AuthTag    string
	// Signature is an optional detached Ed25519 signature over the raw
	// envelope bytes. Verified before decryption when the relay is
	// configured with a source signing key.
	Signature string
	Algorithm string
}

func (Cipher) envelope() {}

// Demo is a pre-resolved batch of plaintext records. It bypasses
// decryption entirely and is accepted only when demo mode is explicitly
// enabled.
type Demo struct {
	Records json.RawMessage
}

func (Demo) envelope() {}

// Wire is the undecoded payload shape received from the fetch source.
type Wire struct {
	Encrypted *WireEncrypted  `json:"encrypted"`
	Algorithm string          `json:"algorithm,omitempty"`
	Records   json.RawMessage `json:"records,omitempty"`
}

// WireEncrypted carries the encrypted triple as emitted by the source.
type WireEncrypted struct {
	Encrypted string `json:"encrypted"`
	IV        string `json:"iv"`
	AuthTag   string `json:"authTag"`
	Signature string `json:"signature,omitempty"`
}

// Validate checks an inbound wire payload for structural well-formedness
// and returns the corresponding Envelope variant. It performs existence
// and type checks only, deferring hex/base64 decoding to the decryption
// stage, and must reject before any cipher call is made.
//
// The demo variant is returned only when allowDemo is set; an encrypted
// triple always wins over a records field so a malicious source cannot
// downgrade an encrypted payload to plaintext by adding records.
func Validate(w *Wire, allowDemo bool) (Envelope, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformed)
	}

	if w.Encrypted != nil {
		return validateCipher(w)
	}

	if len(w.Records) > 0 {
		if !allowDemo {
			return nil, fmt.Errorf("%w: plaintext records payload but demo mode is not enabled", ErrMalformed)
		}
		return Demo{Records: w.Records}, nil
	}

	return nil, fmt.Errorf("%w: payload has neither encrypted data nor demo records", ErrMalformed)
}

func validateCipher(w *Wire) (Envelope, error) {
	enc := w.Encrypted
	if enc.Encrypted == "" {
		return nil, fmt.Errorf("%w: missing ciphertext", ErrMalformed)
	}
	if enc.IV == "" {
		return nil, fmt.Errorf("%w: missing nonce", ErrMalformed)
	}
	if enc.AuthTag == "" {
		return nil, fmt.Errorf("%w: missing authentication tag", ErrMalformed)
	}

	alg := w.Algorithm
	if alg == "" {
		alg = crypto.AlgorithmAES256GCM
	}
	if alg != crypto.AlgorithmAES256GCM {
		// Algorithm identifiers are short and attacker-neutral, safe to echo.
		return nil, fmt.Errorf("%w: %s %q", ErrMalformed, crypto.ErrUnsupportedAlgorithm, alg)
	}

	return Cipher{
		Ciphertext: enc.Encrypted,
		Nonce:      enc.IV,
		AuthTag:    enc.AuthTag,
		Signature:  enc.Signature,
		Algorithm:  alg,
	}, nil
}
