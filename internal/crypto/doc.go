// Package crypto implements the cryptographic core of the relay: passphrase
// key derivation, authenticated decryption, and optional envelope signature
// verification.
//
// # Algorithms
//
//   - AES-256-GCM: authenticated encryption (AEAD) with a detached 16-byte
//     tag, matching the source's wire format.
//
//   - PBKDF2-HMAC-SHA-256 (RFC 8018): deliberately slow passphrase key
//     derivation, 100,000 iterations, 256-bit output.
//
//   - Ed25519: optional envelope signatures, verified before decryption
//     when a source signing key is configured.
//
// # Decryption strategies
//
// Decrypt supports two execution strategies selected by size or forced by
// the caller. Buffered decryption handles the whole ciphertext in one call
// and is the fast path for common small payloads. Streamed decryption
// consumes ciphertext in 64 KiB chunks, strictly in order, and finalizes
// only after the last chunk. GCM releases no plaintext until the tag has
// verified over the entire message, so the streamed path buffers chunks
// rather than yielding them; see Decrypt for the equivalence guarantee.
//
// # Security notes
//
// A failed tag verification and a failed field decode share one external
// message. Distinguishing them would give an attacker a padding-oracle
// style signal. Error values remain distinct for errors.Is.
//
// Key material derived here is owned by the requesting decryption call,
// recomputed per call, and never cached, persisted, or logged.
package crypto
