package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keleris32/relay/internal/infra/storage"
)

// Server provides HTTP endpoints for health monitoring.
type Server struct {
	checker *Checker
	queue   storage.RequestQueue
	server  *http.Server
}

// NewServer creates a new health server.
func NewServer(checker *Checker, queue storage.RequestQueue, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		checker: checker,
		queue:   queue,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/detailed", s.handleDetailed)
	mux.Handle("/metrics", promhttp.Handler())

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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if !s.checker.Online() {
		status = "offline"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	queued, err := s.queue.Count(r.Context())
	report := map[string]any{
		"online":            s.checker.Online(),
		"persisted_pending": queued,
	}
	if err != nil {
		report["queue_error"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
