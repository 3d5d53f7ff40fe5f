package main

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	securerelay "github.com/securerelay/relay-go"
)

// response is the caller-facing result shape.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newRouter(relay *securerelay.Relay, apiToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(bearerAuth(apiToken))

	h := &relayHandler{relay: relay, logger: logger}

	r.Route("/api/relay", func(r chi.Router) {
		r.Post("/run", h.run)
		r.Post("/clear", h.clear)
		r.Get("/health", h.health)
	})

	return r
}

// bearerAuth enforces the fixed-token boundary check. An empty token
// disables it.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
				if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					writeJSON(w, http.StatusUnauthorized, response{
						Success: false,
						Error:   "unauthorized",
					})
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type relayHandler struct {
	relay  *securerelay.Relay
	logger *slog.Logger
}

func (h *relayHandler) run(w http.ResponseWriter, r *http.Request) {
	result, err := h.relay.Run(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		msg := "relay flow failed"

		var flowErr *securerelay.FlowError
		if errors.As(err, &flowErr) {
			msg = "relay flow failed at " + string(flowErr.Stage) + " stage"
			switch flowErr.Stage {
			case securerelay.StageEnvelope, securerelay.StageDecrypt,
				securerelay.StageParse, securerelay.StageValidate:
				status = http.StatusUnprocessableEntity
			}
		}
		h.logger.WarnContext(r.Context(), "relay run failed",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)

		// Error text from the pipeline never contains plaintext or key
		// material; it is safe to surface.
		writeJSON(w, status, response{Success: false, Message: msg, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "records processed",
		Data: map[string]any{
			"flowId":      result.FlowID,
			"count":       len(result.Records),
			"forwardedAt": result.ForwardedAt,
		},
	})
}

func (h *relayHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.relay.Clear(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "sink clear failed",
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		writeJSON(w, http.StatusBadGateway, response{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "sink cleared"})
}

func (h *relayHandler) health(w http.ResponseWriter, r *http.Request) {
	available := h.relay.Health(r.Context())
	status := http.StatusOK
	if !available {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response{
		Success: available,
		Data:    map[string]bool{"sinkAvailable": available},
	})
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
