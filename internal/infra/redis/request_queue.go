package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/keleris32/relay/internal/core/domain"
)

// RequestQueue implements storage.RequestQueue using Redis. Entries live in
// a sorted set scored by enqueue time, with the serialized request stored
// under a per-request key.
type RequestQueue struct {
	rdb       *redis.Client
	namespace string
}

// NewRequestQueue creates a Redis-backed persisted request queue.
func NewRequestQueue(client *Client, namespace string) *RequestQueue {
	return &RequestQueue{rdb: client.rdb, namespace: namespace}
}

func (q *RequestQueue) queueKey() string {
	return fmt.Sprintf("persisted_requests:%s", q.namespace)
}

func (q *RequestQueue) requestKey(id string) string {
	return fmt.Sprintf("persisted_request:%s:%s", q.namespace, id)
}

// Add enqueues a request. Re-adding an already-queued request overwrites the
// stored payload without changing its queue position.
func (q *RequestQueue) Add(ctx context.Context, req *domain.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := q.rdb.Set(ctx, q.requestKey(req.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set request: %w", err)
	}

	if err := q.rdb.ZAddNX(ctx, q.queueKey(), redis.Z{
		Score:  float64(req.CreatedAt.UnixNano()),
		Member: req.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	return nil
}

// Remove deletes a request. Safe to call on a request not present.
func (q *RequestQueue) Remove(ctx context.Context, req *domain.Request) error {
	if err := q.rdb.ZRem(ctx, q.queueKey(), req.ID).Err(); err != nil {
		return fmt.Errorf("failed to remove from queue: %w", err)
	}
	if err := q.rdb.Del(ctx, q.requestKey(req.ID)).Err(); err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

// Next returns the oldest queued request, or nil when the queue is empty.
func (q *RequestQueue) Next(ctx context.Context) (*domain.Request, error) {
	ids, err := q.rdb.ZRange(ctx, q.queueKey(), 0, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	data, err := q.rdb.Get(ctx, q.requestKey(ids[0])).Bytes()
	if err == redis.Nil {
		// Payload gone but ID still queued, drop the orphan.
		q.rdb.ZRem(ctx, q.queueKey(), ids[0])
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	var req domain.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return &req, nil
}

// All returns every queued request in enqueue order.
func (q *RequestQueue) All(ctx context.Context) ([]*domain.Request, error) {
	ids, err := q.rdb.ZRange(ctx, q.queueKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}

	requests := make([]*domain.Request, 0, len(ids))
	for _, id := range ids {
		data, err := q.rdb.Get(ctx, q.requestKey(id)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get request: %w", err)
		}

		var req domain.Request
		if err := json.Unmarshal(data, &req); err != nil {
			continue
		}
		requests = append(requests, &req)
	}
	return requests, nil
}

// Count returns the queue depth.
func (q *RequestQueue) Count(ctx context.Context) (int, error) {
	count, err := q.rdb.ZCard(ctx, q.queueKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w", err)
	}
	return int(count), nil
}

// Clear drops every queued request.
func (q *RequestQueue) Clear(ctx context.Context) error {
	ids, err := q.rdb.ZRange(ctx, q.queueKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("zrange failed: %w", err)
	}
	for _, id := range ids {
		if err := q.rdb.Del(ctx, q.requestKey(id)).Err(); err != nil {
			return fmt.Errorf("failed to delete request: %w", err)
		}
	}
	return q.rdb.Del(ctx, q.queueKey()).Err()
}
