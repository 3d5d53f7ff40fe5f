package crypto

const (
	// KeySize is the size of an AES-256 key in bytes.
	KeySize = 32
	// NonceSize is the size of an AES-GCM nonce in bytes.
	NonceSize = 12
	// TagSize is the size of an AES-GCM authentication tag in bytes.
	TagSize = 16

	// SaltMinSize is the minimum accepted key-derivation salt length.
	SaltMinSize = 8

	// PBKDF2Iterations is the iteration count for passphrase key derivation.
	// Deliberately large so brute-force key search stays expensive.
	PBKDF2Iterations = 100_000

	// StreamThreshold is the ciphertext size at and above which the
	// streamed decryption strategy is selected automatically.
	StreamThreshold = 1 << 20 // 1 MiB

	// ChunkSize is the unit in which the streamed strategy consumes
	// ciphertext. Chunks are processed strictly in order.
	ChunkSize = 64 << 10 // 64 KiB
)

// AlgorithmAES256GCM is the canonical identifier of the supported AEAD scheme.
const AlgorithmAES256GCM = "aes-256-gcm"
