package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	securerelay "github.com/securerelay/relay-go"
)

func newTestRelay(t *testing.T, sourceBody string, sinkStatus int) *securerelay.Relay {
	t.Helper()

	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sourceBody))
	}))
	t.Cleanup(source.Close)

	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(sinkStatus)
	}))
	t.Cleanup(sink.Close)

	relay, err := securerelay.New(
		securerelay.WithSourceURL(source.URL),
		securerelay.WithSinkURL(sink.URL),
		securerelay.WithDemoMode(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return relay
}

const demoBody = `{"success":true,"data":{"records":[{"name":"Ana","email":"ana@x.com","phone":"1"}]}}`

func TestBearerAuth(t *testing.T) {
	relay := newTestRelay(t, demoBody, http.StatusOK)
	router := newRouter(relay, "secret-token", slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"valid token", "Bearer secret-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/relay/health", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRunEndpoint(t *testing.T) {
	relay := newTestRelay(t, demoBody, http.StatusOK)
	router := newRouter(relay, "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/relay/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Errorf("success = false: %+v", resp)
	}
}

func TestRunEndpoint_ValidationFailure(t *testing.T) {
	// Record with a missing name fails the validate stage; the handler
	// maps local data failures to 422.
	body := `{"success":true,"data":{"records":[{"name":"","email":"a@x.com","phone":"1"}]}}`
	relay := newTestRelay(t, body, http.StatusOK)
	router := newRouter(relay, "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/relay/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422; body = %s", rec.Code, rec.Body)
	}

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Error("success = true for a failed flow")
	}
}

func TestRunEndpoint_LogsFailure(t *testing.T) {
	body := `{"success":true,"data":{"records":[{"name":"","email":"a@x.com","phone":"1"}]}}`
	relay := newTestRelay(t, body, http.StatusOK)

	var logs bytes.Buffer
	router := newRouter(relay, "", slog.New(slog.NewTextHandler(&logs, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/relay/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !strings.Contains(logs.String(), "relay run failed") {
		t.Errorf("failed run not logged: %q", logs.String())
	}
	if !strings.Contains(logs.String(), "request_id") {
		t.Errorf("log line missing request id: %q", logs.String())
	}
}

func TestClearEndpoint(t *testing.T) {
	relay := newTestRelay(t, demoBody, http.StatusOK)
	router := newRouter(relay, "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/relay/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestHealthEndpoint_Unavailable(t *testing.T) {
	relay := newTestRelay(t, demoBody, http.StatusInternalServerError)
	router := newRouter(relay, "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/relay/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
