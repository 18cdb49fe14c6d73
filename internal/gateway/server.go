// Package gateway is the local HTTP ingress for API request submissions.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/keleris32/relay/internal/core/domain"
	"github.com/keleris32/relay/internal/infra/storage"
	"github.com/keleris32/relay/internal/replay"
)

// submission is the request body accepted on /api/{command}.
type submission struct {
	Data            map[string]any `json:"data"`
	Type            string         `json:"type"`
	ShouldUseSecure bool           `json:"shouldUseSecure"`
}

// Server accepts request submissions and feeds them into the pipeline.
type Server struct {
	submitter replay.Submitter
	queue     storage.RequestQueue
	server    *http.Server
	log       *slog.Logger
}

// NewServer creates the gateway server.
func NewServer(submitter replay.Submitter, queue storage.RequestQueue, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		submitter: submitter,
		queue:     queue,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		log: slog.Default().With("component", "gateway"),
	}

	mux.HandleFunc("/api/", s.handleSubmit)

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	command := strings.TrimPrefix(r.URL.Path, "/api/")
	if command == "" {
		http.Error(w, "command is required", http.StatusBadRequest)
		return
	}

	var sub submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if sub.Type == "" {
		sub.Type = "post"
	}

	req := domain.NewRequest(command, sub.Data, sub.Type, sub.ShouldUseSecure)

	// Persistable requests are queued before dispatch so a crash or a
	// retryable failure cannot lose them.
	if req.Persist() {
		if err := s.queue.Add(r.Context(), req); err != nil {
			s.log.Error("Failed to persist request", "command", command, "error", err)
			http.Error(w, "failed to persist request", http.StatusInternalServerError)
			return
		}
	}

	resp, err := s.submitter.Process(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case err != nil:
		// Only retryable network failures surface here; the entry, if
		// persisted, stays queued for the replay worker.
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"error":     err.Error(),
			"retryable": true,
		})
	case resp == nil:
		// Swallowed outcome: settled with no payload.
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{})
	default:
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp.Raw)
	}
}
