package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/securerelay/relay-go/internal/crypto"
	"github.com/securerelay/relay-go/internal/envelope"
)

// sealCmd produces a wire envelope from plaintext records, for feeding a
// test source. The inverse of what the relay does.
func sealCmd() *cobra.Command {
	var (
		passphrase string
		salt       string
		inputFile  string
		signingKey string
	)

	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt a plaintext record file into a source envelope",
		RunE: func(cmd *cobra.Command, args []string) error {
			plaintext, err := readInput(inputFile)
			if err != nil {
				return err
			}

			key, err := crypto.DeriveKey([]byte(passphrase), []byte(salt))
			if err != nil {
				return err
			}

			nonce := make([]byte, crypto.NonceSize)
			if _, err := rand.Read(nonce); err != nil {
				return fmt.Errorf("failed to generate nonce: %w", err)
			}

			ciphertext, tag, err := crypto.Encrypt(key, nonce, plaintext)
			if err != nil {
				return err
			}

			enc := &envelope.WireEncrypted{
				Encrypted: crypto.EncodeField(ciphertext),
				IV:        crypto.EncodeField(nonce),
				AuthTag:   crypto.EncodeField(tag),
			}

			if signingKey != "" {
				priv, err := crypto.DecodeField("signing key", signingKey)
				if err != nil {
					return err
				}
				sig, err := crypto.SignEnvelope(priv, ciphertext, nonce, tag)
				if err != nil {
					return err
				}
				enc.Signature = crypto.EncodeField(sig)
			}

			return printJSON(map[string]any{
				"success": true,
				"data": &envelope.Wire{
					Encrypted: enc,
					Algorithm: crypto.AlgorithmAES256GCM,
				},
			})
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "key-derivation passphrase (required)")
	cmd.Flags().StringVar(&salt, "salt", "", "key-derivation salt (required)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "-", "plaintext records file, - for stdin")
	cmd.Flags().StringVar(&signingKey, "signing-key", "", "Ed25519 private key (hex or base64) to sign the envelope")
	_ = cmd.MarkFlagRequired("passphrase")
	_ = cmd.MarkFlagRequired("salt")

	return cmd
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
