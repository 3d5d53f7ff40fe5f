package crypto

import "errors"

var (
	// ErrAuthenticationFailed is returned when the authentication tag does
	// not verify. Its message is identical to ErrDecodingFailed on purpose:
	// externally visible text must not reveal whether the tag or the
	// encoding was at fault.
	ErrAuthenticationFailed = errors.New("decryption failed")

	// ErrDecodingFailed is returned when ciphertext, nonce, or tag cannot
	// be decoded or have impossible sizes. Same external message as
	// ErrAuthenticationFailed; distinguish with errors.Is only.
	ErrDecodingFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidTagSize is returned when the authentication tag size is invalid.
	ErrInvalidTagSize = errors.New("invalid authentication tag size")

	// ErrEmptyPassphrase is returned when key derivation is attempted with
	// an empty passphrase.
	ErrEmptyPassphrase = errors.New("empty passphrase")

	// ErrSaltTooShort is returned when the key-derivation salt is missing
	// or shorter than SaltMinSize.
	ErrSaltTooShort = errors.New("salt too short")

	// ErrUnsupportedAlgorithm is returned when an envelope names an AEAD
	// scheme other than AlgorithmAES256GCM.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrSignatureInvalid is returned when envelope signature verification fails.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrInvalidSigningKeySize is returned when the configured signing key
	// has the wrong length for Ed25519.
	ErrInvalidSigningKeySize = errors.New("invalid signing key size")
)
