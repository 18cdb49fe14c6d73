package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/keleris32/relay/internal/core/domain"
)

// RequestQueue implements storage.RequestQueue using PostgreSQL.
type RequestQueue struct {
	db *DB
}

// NewRequestQueue creates a PostgreSQL persisted request queue.
func NewRequestQueue(db *DB) *RequestQueue {
	return &RequestQueue{db: db}
}

type requestRow struct {
	ID              string    `db:"id"`
	Command         string    `db:"command"`
	Data            []byte    `db:"data"`
	Type            string    `db:"type"`
	ShouldUseSecure bool      `db:"should_use_secure"`
	CreatedAt       time.Time `db:"created_at"`
}

func (row *requestRow) toDomain() (*domain.Request, error) {
	req := &domain.Request{
		ID:              row.ID,
		Command:         row.Command,
		Type:            row.Type,
		ShouldUseSecure: row.ShouldUseSecure,
		CreatedAt:       row.CreatedAt,
	}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &req.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal request data: %w", err)
		}
	}
	return req, nil
}

// Add enqueues a request. Re-adding an existing ID is a no-op.
func (q *RequestQueue) Add(ctx context.Context, req *domain.Request) error {
	data, err := json.Marshal(req.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	query := `
		INSERT INTO persisted_requests (id, command, data, type, should_use_secure, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = q.db.ExecContext(
		ctx,
		query,
		req.ID,
		req.Command,
		data,
		req.Type,
		req.ShouldUseSecure,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add persisted request: %w", err)
	}
	return nil
}

// Remove deletes a request. Deleting an absent row is not an error.
func (q *RequestQueue) Remove(ctx context.Context, req *domain.Request) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM persisted_requests WHERE id = $1`, req.ID)
	if err != nil {
		return fmt.Errorf("failed to remove persisted request: %w", err)
	}
	return nil
}

// Next returns the oldest queued request.
func (q *RequestQueue) Next(ctx context.Context) (*domain.Request, error) {
	query := `
		SELECT id, command, data, type, should_use_secure, created_at
		FROM persisted_requests
		ORDER BY created_at ASC
		LIMIT 1
	`

	var row requestRow
	err := q.db.GetContext(ctx, &row, query)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persisted request: %w", err)
	}
	return row.toDomain()
}

// All returns every queued request in enqueue order.
func (q *RequestQueue) All(ctx context.Context) ([]*domain.Request, error) {
	query := `
		SELECT id, command, data, type, should_use_secure, created_at
		FROM persisted_requests
		ORDER BY created_at ASC
	`

	var rows []requestRow
	if err := q.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list persisted requests: %w", err)
	}

	requests := make([]*domain.Request, 0, len(rows))
	for i := range rows {
		req, err := rows[i].toDomain()
		if err != nil {
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Count returns the queue depth.
func (q *RequestQueue) Count(ctx context.Context) (int, error) {
	var count int
	err := q.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM persisted_requests`)
	if err != nil {
		return 0, fmt.Errorf("failed to count persisted requests: %w", err)
	}
	return count, nil
}

// Clear drops every queued request.
func (q *RequestQueue) Clear(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM persisted_requests`)
	if err != nil {
		return fmt.Errorf("failed to clear persisted requests: %w", err)
	}
	return nil
}
