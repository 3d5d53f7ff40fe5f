package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestEncrypt_Decrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello world")},
		{"json", []byte(`[{"name":"Ana","email":"ana@x.com","phone":"1"}]`)},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"chunk boundary", make([]byte, ChunkSize)},
		{"large", make([]byte, 3*ChunkSize+17)},
	}

	strategies := []Strategy{StrategyAuto, StrategyBuffered, StrategyStreamed}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := randomBytes(t, KeySize)
			nonce := randomBytes(t, NonceSize)

			ciphertext, tag, err := Encrypt(key, nonce, tt.plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(tag) != TagSize {
				t.Errorf("tag length = %d, want %d", len(tag), TagSize)
			}
			if len(ciphertext) != len(tt.plaintext) {
				t.Errorf("ciphertext length = %d, want %d", len(ciphertext), len(tt.plaintext))
			}

			for _, strategy := range strategies {
				decrypted, err := Decrypt(key, nonce, tag, ciphertext, strategy)
				if err != nil {
					t.Fatalf("Decrypt(%v) error = %v", strategy, err)
				}
				if !bytes.Equal(decrypted, tt.plaintext) {
					t.Errorf("Decrypt(%v) = %q, want %q", strategy, decrypted, tt.plaintext)
				}
			}
		})
	}
}

func TestDecrypt_StrategyEquivalence(t *testing.T) {
	// Sizes straddling the auto-select threshold, including the exact boundary.
	sizes := []struct {
		name string
		n    int
	}{
		{"small", 100},
		{"just below threshold", StreamThreshold - 1},
		{"at threshold", StreamThreshold},
		{"above threshold", StreamThreshold + ChunkSize + 3},
	}

	key := randomBytes(t, KeySize)
	nonce := randomBytes(t, NonceSize)

	for _, tt := range sizes {
		t.Run(tt.name, func(t *testing.T) {
			plaintext := randomBytes(t, tt.n)
			ciphertext, tag, err := Encrypt(key, nonce, plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			buffered, bufErr := Decrypt(key, nonce, tag, ciphertext, StrategyBuffered)
			streamed, strErr := Decrypt(key, nonce, tag, ciphertext, StrategyStreamed)
			auto, autoErr := Decrypt(key, nonce, tag, ciphertext, StrategyAuto)

			if bufErr != nil || strErr != nil || autoErr != nil {
				t.Fatalf("errors: buffered=%v streamed=%v auto=%v", bufErr, strErr, autoErr)
			}
			if !bytes.Equal(buffered, streamed) {
				t.Error("buffered and streamed outputs differ")
			}
			if !bytes.Equal(buffered, auto) {
				t.Error("buffered and auto outputs differ")
			}

			// Failures must be identical too.
			badTag := bytes.Clone(tag)
			badTag[0] ^= 0x01
			_, bufErr = Decrypt(key, nonce, badTag, ciphertext, StrategyBuffered)
			_, strErr = Decrypt(key, nonce, badTag, ciphertext, StrategyStreamed)
			if !errors.Is(bufErr, ErrAuthenticationFailed) || !errors.Is(strErr, ErrAuthenticationFailed) {
				t.Errorf("tampered tag: buffered=%v streamed=%v, want ErrAuthenticationFailed", bufErr, strErr)
			}
		})
	}
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key := randomBytes(t, KeySize)
	nonce := randomBytes(t, NonceSize)
	plaintext := []byte(`[{"name":"Ana","email":"ana@x.com","phone":"1"}]`)

	ciphertext, tag, err := Encrypt(key, nonce, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(ct, n, tg []byte)
	}{
		{"flip ciphertext bit", func(ct, n, tg []byte) { ct[0] ^= 0x01 }},
		{"flip last ciphertext bit", func(ct, n, tg []byte) { ct[len(ct)-1] ^= 0x80 }},
		{"flip nonce bit", func(ct, n, tg []byte) { n[5] ^= 0x01 }},
		{"flip tag bit", func(ct, n, tg []byte) { tg[TagSize-1] ^= 0x01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := bytes.Clone(ciphertext)
			n := bytes.Clone(nonce)
			tg := bytes.Clone(tag)
			tt.mutate(ct, n, tg)

			for _, strategy := range []Strategy{StrategyBuffered, StrategyStreamed} {
				got, err := Decrypt(key, n, tg, ct, strategy)
				if !errors.Is(err, ErrAuthenticationFailed) {
					t.Errorf("Decrypt(%v) error = %v, want ErrAuthenticationFailed", strategy, err)
				}
				if got != nil {
					t.Errorf("Decrypt(%v) returned plaintext despite tampering", strategy)
				}
			}
		})
	}
}

func TestDecrypt_IndistinguishableFailureMessages(t *testing.T) {
	// A tag failure and a decode failure must read identically from outside.
	if ErrAuthenticationFailed.Error() != ErrDecodingFailed.Error() {
		t.Errorf("messages differ: %q vs %q", ErrAuthenticationFailed, ErrDecodingFailed)
	}
	if errors.Is(ErrAuthenticationFailed, ErrDecodingFailed) {
		t.Error("sentinels must remain distinct values")
	}
}

func TestDecrypt_InvalidSizes(t *testing.T) {
	tests := []struct {
		name    string
		key     int
		nonce   int
		tag     int
		wantErr error
	}{
		{"short key", 16, NonceSize, TagSize, ErrInvalidKeySize},
		{"long key", 64, NonceSize, TagSize, ErrInvalidKeySize},
		{"short nonce", KeySize, 8, TagSize, ErrInvalidNonceSize},
		{"long nonce", KeySize, 16, TagSize, ErrInvalidNonceSize},
		{"short tag", KeySize, NonceSize, 12, ErrInvalidTagSize},
		{"empty tag", KeySize, NonceSize, 0, ErrInvalidTagSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(make([]byte, tt.key), make([]byte, tt.nonce), make([]byte, tt.tag), []byte("x"), StrategyAuto)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decrypt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecrypt_UnknownStrategy(t *testing.T) {
	key := make([]byte, KeySize)
	_, err := Decrypt(key, make([]byte, NonceSize), make([]byte, TagSize), []byte("x"), Strategy(42))
	if err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestStrategy_String(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     string
	}{
		{StrategyAuto, "auto"},
		{StrategyBuffered, "buffered"},
		{StrategyStreamed, "streamed"},
		{Strategy(9), "strategy(9)"},
	}
	for _, tt := range tests {
		if got := tt.strategy.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
