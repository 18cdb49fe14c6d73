// Package replay resubmits persisted requests after retryable failures.
//
// The worker drains the durable queue one request at a time, in enqueue
// order, through the same pipeline as live traffic. The pipeline removes an
// entry itself once its disposition is final, so the worker only decides
// when to try again.
package replay

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/keleris32/relay/internal/core/domain"
	"github.com/keleris32/relay/internal/infra/storage"
	"github.com/keleris32/relay/internal/metrics"
)

// Submitter dispatches a request through the pipeline.
type Submitter interface {
	Process(ctx context.Context, req *domain.Request) (*domain.Response, error)
}

// Connectivity gates replay on backend reachability.
type Connectivity interface {
	Online() bool
}

// Config defines replay behavior.
type Config struct {
	EmptySleep      time.Duration // Sleep when queue empty or offline
	InitialDelay    time.Duration // First backoff after a retryable failure
	MaxDelay        time.Duration // Backoff cap
	BackoffMultiple float64
}

// DefaultConfig provides sensible defaults.
var DefaultConfig = Config{
	EmptySleep:      5 * time.Second,
	InitialDelay:    1 * time.Second,
	MaxDelay:        60 * time.Second,
	BackoffMultiple: 2.0,
}

// Worker replays persisted requests sequentially.
type Worker struct {
	cfg       Config
	queue     storage.RequestQueue
	submitter Submitter
	conn      Connectivity
	log       *slog.Logger
}

// NewWorker creates a replay worker.
func NewWorker(cfg Config, queue storage.RequestQueue, submitter Submitter, conn Connectivity) *Worker {
	return &Worker{
		cfg:       cfg,
		queue:     queue,
		submitter: submitter,
		conn:      conn,
		log:       slog.Default().With("component", "replay"),
	}
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Starting replay worker")

	attempt := 0
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Replay worker stopped")
			return nil
		default:
		}

		if !w.conn.Online() {
			if !w.sleep(ctx, w.cfg.EmptySleep) {
				return nil
			}
			continue
		}

		req, err := w.queue.Next(ctx)
		if err != nil {
			w.log.Error("Failed to read persisted queue", "error", err)
			if !w.sleep(ctx, w.cfg.EmptySleep) {
				return nil
			}
			continue
		}
		if req == nil {
			attempt = 0
			if !w.sleep(ctx, w.cfg.EmptySleep) {
				return nil
			}
			continue
		}

		// A retryable failure leaves the entry queued; back off before the
		// next pass. Any other disposition removed it inside the pipeline.
		if _, err := w.submitter.Process(ctx, req); err != nil {
			attempt++
			metrics.ReplayAttempts.WithLabelValues("retryable").Inc()
			w.log.Warn("Replay attempt failed",
				"command", req.Command,
				"attempt", attempt,
				"error", err,
			)
			if !w.sleep(ctx, w.backoff(attempt)) {
				return nil
			}
			continue
		}

		attempt = 0
		metrics.ReplayAttempts.WithLabelValues("settled").Inc()
		w.log.Debug("Replayed persisted request", "command", req.Command)
	}
}

func (w *Worker) backoff(attempt int) time.Duration {
	delay := float64(w.cfg.InitialDelay) * math.Pow(w.cfg.BackoffMultiple, float64(attempt-1))
	if delay > float64(w.cfg.MaxDelay) {
		delay = float64(w.cfg.MaxDelay)
	}
	return time.Duration(delay)
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
