package crypto

import (
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
)

// VerifySignature verifies an Ed25519 signature over the raw envelope bytes
// (ciphertext || nonce || tag). When the relay is configured with a source
// signing key this MUST be called before any decryption attempt.
func VerifySignature(publicKey, ciphertext, nonce, tag, sig []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidSigningKeySize, len(publicKey), ed25519.PublicKeySize)
	}
	if len(sig) != ed25519.SignatureSize {
		return ErrSignatureInvalid
	}

	msg := make([]byte, 0, len(ciphertext)+len(nonce)+len(tag))
	msg = append(msg, ciphertext...)
	msg = append(msg, nonce...)
	msg = append(msg, tag...)

	if !ed25519.Verify(ed25519.PublicKey(publicKey), msg, sig) {
		return ErrSignatureInvalid
	}
	return nil
}

// SignEnvelope produces the signature VerifySignature expects. Test and
// tooling helper; the relay itself never signs.
func SignEnvelope(privateKey, ciphertext, nonce, tag []byte) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSigningKeySize, len(privateKey), ed25519.PrivateKeySize)
	}

	msg := make([]byte, 0, len(ciphertext)+len(nonce)+len(tag))
	msg = append(msg, ciphertext...)
	msg = append(msg, nonce...)
	msg = append(msg, tag...)

	return ed25519.Sign(ed25519.PrivateKey(privateKey), msg), nil
}
