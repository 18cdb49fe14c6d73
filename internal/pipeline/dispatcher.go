// Package pipeline dispatches prepared API requests and classifies
// transport failures.
//
// A request flows through one sequential chain: prepare parameters, arm the
// watchdog, send, then route to success or failure handling. Only retryable
// network failures surface to the caller as errors; cancelled and
// unrecognized failures are absorbed here, with the persisted-queue removal
// as their only observable trace.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/keleris32/relay/internal/core/domain"
	"github.com/keleris32/relay/internal/infra/transport"
	"github.com/keleris32/relay/internal/metrics"
)

// Queue is the slice of the persisted request queue the dispatcher needs.
// Remove is idempotent; removing an absent entry is not an error.
type Queue interface {
	Remove(ctx context.Context, req *domain.Request) error
}

// Watchdog arms a timer per in-flight request. The returned stop func is
// safe to call once the request settles; if the timer fires first an
// external connectivity recheck is triggered. The watchdog never aborts the
// request itself.
type Watchdog interface {
	Start() (stop func())
}

// Notifier receives successful responses, fire-and-forget.
type Notifier interface {
	ResponseReceived(ctx context.Context, req *domain.Request, resp *domain.Response)
}

// Dispatcher orchestrates a single request through the transport.
type Dispatcher struct {
	transport transport.Transport
	preparer  Preparer
	queue     Queue
	watchdog  Watchdog
	notifier  Notifier
	log       *slog.Logger
}

// NewDispatcher wires a dispatcher from its collaborators.
func NewDispatcher(
	t transport.Transport,
	preparer Preparer,
	queue Queue,
	watchdog Watchdog,
	notifier Notifier,
) *Dispatcher {
	return &Dispatcher{
		transport: t,
		preparer:  preparer,
		queue:     queue,
		watchdog:  watchdog,
		notifier:  notifier,
		log:       slog.Default().With("component", "pipeline"),
	}
}

// Process dispatches one request. It returns the transport response on
// success, (nil, nil) for swallowed failures, and an error only for
// retryable network failures.
func (d *Dispatcher) Process(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	persisted := req.Persist()

	params, err := d.preparer.Prepare(req.Command, req.Data)
	if err != nil {
		return nil, err
	}

	stop := d.watchdog.Start()
	defer stop()

	// A logging command must not log itself, or every log line would spawn
	// another logged request.
	if req.Command != domain.CommandLog {
		d.log.Info("Making API request",
			"command", req.Command,
			"type", req.Type,
			"shouldUseSecure", req.ShouldUseSecure,
			"returnValueList", req.ReturnValueList(),
		)
	}

	start := time.Now()
	resp, err := d.transport.Send(ctx, req.Command, params, req.Type, req.ShouldUseSecure)
	metrics.RequestDuration.WithLabelValues(req.Command).Observe(time.Since(start).Seconds())

	if err != nil {
		return d.handleFailure(ctx, req, persisted, err)
	}
	return d.handleSuccess(ctx, req, persisted, resp)
}

func (d *Dispatcher) handleSuccess(
	ctx context.Context,
	req *domain.Request,
	persisted bool,
	resp *domain.Response,
) (*domain.Response, error) {
	metrics.RequestsTotal.WithLabelValues(req.Command, "success").Inc()

	if persisted {
		if err := d.queue.Remove(ctx, req); err != nil {
			d.log.Warn("Failed to remove persisted request", "command", req.Command, "error", err)
		} else {
			metrics.QueueRemovals.WithLabelValues("success").Inc()
		}
	}

	d.notifier.ResponseReceived(ctx, req, resp)
	return resp, nil
}

func (d *Dispatcher) handleFailure(
	ctx context.Context,
	req *domain.Request,
	persisted bool,
	err error,
) (*domain.Response, error) {
	terr := transport.AsError(err)
	cls := Classify(terr.Message, terr.Name)
	metrics.RequestsTotal.WithLabelValues(req.Command, cls.Outcome.String()).Inc()

	switch cls.Outcome {
	case OutcomeRetryable:
		if !cls.Quiet {
			d.log.Warn("API request failed with a retryable network error", "message", terr.Message)
		}
		// Re-raise without touching the queue: the entry must survive so
		// the replay mechanism can resubmit it.
		if cls.Normalize {
			return nil, transport.NewError(transport.MsgFailedToFetch)
		}
		return nil, err

	case OutcomeCancelled:
		d.log.Info("API request cancelled by the user", "command", req.Command, "type", req.Type)

	default:
		d.log.Error("API request failed with an unrecognized error, needs operator attention",
			"command", req.Command,
			"message", terr.Message,
		)
	}

	// Final dispositions drain the queue so an unrecoverable or abandoned
	// request is never replayed.
	if persisted {
		if rmErr := d.queue.Remove(ctx, req); rmErr != nil {
			d.log.Warn("Failed to remove persisted request", "command", req.Command, "error", rmErr)
		} else {
			metrics.QueueRemovals.WithLabelValues(cls.Outcome.String()).Inc()
		}
	}

	return nil, nil
}
