package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// DecodeField decodes a wire-encoded envelope field to raw bytes. The
// source emits hex by default, but base64 payloads exist in the wild, so
// decoding is lenient: hex first, then the base64 variants.
func DecodeField(name, s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty %s", ErrDecodingFailed, name)
	}

	if data, err := hex.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}

	// Field name only; never echo the undecodable value.
	return nil, fmt.Errorf("%w: undecodable %s", ErrDecodingFailed, name)
}

// EncodeField encodes raw bytes as hex, the source's default wire encoding.
func EncodeField(data []byte) string {
	return hex.EncodeToString(data)
}
