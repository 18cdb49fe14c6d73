package memory

import (
	"context"
	"sync"

	"github.com/keleris32/relay/internal/core/domain"
)

// RequestQueue is an in-memory persisted request queue, used for tests and
// running without redis or postgres configured.
type RequestQueue struct {
	mu      sync.RWMutex
	entries []*domain.Request
	index   map[string]struct{}
}

// NewRequestQueue creates an empty in-memory queue.
func NewRequestQueue() *RequestQueue {
	return &RequestQueue{index: make(map[string]struct{})}
}

func (q *RequestQueue) Add(ctx context.Context, req *domain.Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.index[req.ID]; ok {
		return nil
	}
	q.index[req.ID] = struct{}{}
	q.entries = append(q.entries, req)
	return nil
}

func (q *RequestQueue) Remove(ctx context.Context, req *domain.Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.index[req.ID]; !ok {
		return nil
	}
	delete(q.index, req.ID)
	for i, entry := range q.entries {
		if entry.ID == req.ID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	return nil
}

func (q *RequestQueue) Next(ctx context.Context) (*domain.Request, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if len(q.entries) == 0 {
		return nil, nil
	}
	return q.entries[0], nil
}

func (q *RequestQueue) All(ctx context.Context) ([]*domain.Request, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]*domain.Request, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

func (q *RequestQueue) Count(ctx context.Context) (int, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries), nil
}

func (q *RequestQueue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	q.index = make(map[string]struct{})
	return nil
}
