package storage

import (
	"context"

	"github.com/keleris32/relay/internal/core/domain"
)

// RequestQueue is the durable queue of persistable requests awaiting replay.
// Entries are added when a persistable request is first issued and removed
// exactly once, at the point the request's final disposition is known.
type RequestQueue interface {
	// Add enqueues a request. Adding an already-queued request is a no-op.
	Add(ctx context.Context, req *domain.Request) error

	// Remove deletes a request. Idempotent; removing an absent entry is
	// not an error.
	Remove(ctx context.Context, req *domain.Request) error

	// Next returns the oldest queued request, or nil when the queue is empty.
	Next(ctx context.Context) (*domain.Request, error)

	// All returns every queued request in enqueue order.
	All(ctx context.Context) ([]*domain.Request, error)

	// Count returns the queue depth.
	Count(ctx context.Context) (int, error)

	// Clear drops every queued request.
	Clear(ctx context.Context) error
}
