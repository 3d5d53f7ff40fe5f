package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	passphrase := []byte("correct horse battery staple")
	salt := []byte("relay-salt-v1")

	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("key length = %d, want %d", len(key), KeySize)
	}

	// Deterministic: same inputs, same key.
	again, err := DeriveKey(passphrase, salt)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(key, again) {
		t.Error("DeriveKey is not deterministic")
	}

	// Different salt, different key.
	other, err := DeriveKey(passphrase, []byte("another-salt"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(key, other) {
		t.Error("different salts produced the same key")
	}
}

func TestDeriveKey_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name       string
		passphrase []byte
		salt       []byte
		wantErr    error
	}{
		{"empty passphrase", nil, []byte("valid-salt"), ErrEmptyPassphrase},
		{"empty salt", []byte("pass"), nil, ErrSaltTooShort},
		{"short salt", []byte("pass"), []byte("abc"), ErrSaltTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveKey(tt.passphrase, tt.salt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DeriveKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
