package securerelay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/securerelay/relay-go/internal/crypto"
)

func TestNew_RequiresKeyProviderOrDemoMode(t *testing.T) {
	_, err := New(
		WithSourceURL("https://source.example.com"),
		WithSinkURL("https://sink.example.com"),
	)
	if err == nil {
		t.Error("expected error without key provider or demo mode")
	}
}

func TestNew_RequiresSinkURL(t *testing.T) {
	_, err := New(
		WithSourceURL("https://source.example.com"),
		WithKeyProvider(&StaticKeyProvider{
			PassphraseBytes: []byte("p"),
			SaltBytes:       []byte("somesalt"),
		}),
	)
	if err == nil {
		t.Error("expected error without sink URL")
	}
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New(
		WithSinkURL("https://sink.example.com"),
		WithKeyProvider(DemoKeyProvider()),
		WithDecryptionStrategy("chunky"),
	)
	if err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func sealDemoPayload(t *testing.T, provider KeyProvider, plaintext []byte) []byte {
	t.Helper()

	passphrase, salt, err := provider.Passphrase(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		t.Fatal(err)
	}

	nonce := []byte("abcdef012345")
	ciphertext, tag, err := crypto.Encrypt(key, nonce, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(map[string]any{
		"success": true,
		"data": map[string]any{
			"encrypted": map[string]string{
				"encrypted": crypto.EncodeField(ciphertext),
				"iv":        crypto.EncodeField(nonce),
				"authTag":   crypto.EncodeField(tag),
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestRelay_RunEndToEnd(t *testing.T) {
	provider := DemoKeyProvider()
	payload := sealDemoPayload(t, provider,
		[]byte(`[{"name":"João Silva","email":"joao.silva@email.com","phone":"11999999999"}]`))

	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer source.Close()

	forwarded := 0
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Records []UserRecord `json:"records"`
			Action  string       `json:"action"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Action == "process" {
			forwarded += len(req.Records)
		}
	}))
	defer sink.Close()

	for _, strategy := range []DecryptionStrategy{StrategyAuto, StrategyBuffered, StrategyStreamed} {
		t.Run(string(strategy), func(t *testing.T) {
			relay, err := New(
				WithSourceURL(source.URL),
				WithSinkURL(sink.URL),
				WithKeyProvider(provider),
				WithDecryptionStrategy(strategy),
			)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			result, err := relay.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(result.Records) != 1 {
				t.Fatalf("records = %d, want 1", len(result.Records))
			}
			want := UserRecord{Name: "João Silva", Email: "joao.silva@email.com", Phone: "11999999999"}
			if result.Records[0] != want {
				t.Errorf("record = %+v, want %+v", result.Records[0], want)
			}
			if result.ForwardedAt.IsZero() {
				t.Error("ForwardedAt is zero")
			}
		})
	}

	if forwarded != 3 {
		t.Errorf("sink received %d records across runs, want 3", forwarded)
	}
}

func TestRelay_WrongKeyFailsDecryptStage(t *testing.T) {
	// Payload sealed under a different passphrase: the relay's key cannot
	// authenticate it.
	other := &StaticKeyProvider{
		PassphraseBytes: []byte("a different passphrase"),
		SaltBytes:       []byte("a different salt"),
	}
	payload := sealDemoPayload(t, other, []byte(`[]`))

	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer source.Close()

	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer sink.Close()

	relay, err := New(
		WithSourceURL(source.URL),
		WithSinkURL(sink.URL),
		WithKeyProvider(DemoKeyProvider()),
	)
	if err != nil {
		t.Fatal(err)
	}

	_, err = relay.Run(context.Background())

	var flowErr *FlowError
	if !errors.As(err, &flowErr) {
		t.Fatalf("error = %v, want *FlowError", err)
	}
	if flowErr.Stage != StageDecrypt {
		t.Errorf("Stage = %q, want %q", flowErr.Stage, StageDecrypt)
	}
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("error = %v, want ErrAuthenticationFailed in chain", err)
	}
}

func TestRelay_ClearAndHealth(t *testing.T) {
	cleared := false
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req struct {
				Action string `json:"action"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			cleared = req.Action == "clear"
		}
	}))
	defer sink.Close()

	relay, err := New(
		WithSinkURL(sink.URL),
		WithKeyProvider(DemoKeyProvider()),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := relay.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if !cleared {
		t.Error("sink did not receive a clear action")
	}

	if !relay.Health(context.Background()) {
		t.Error("Health() = false for a live sink")
	}
}
