package memory

import (
	"context"
	"testing"

	"github.com/keleris32/relay/internal/core/domain"
)

func TestRequestQueue_AddRemove(t *testing.T) {
	ctx := context.Background()
	q := NewRequestQueue()

	req := domain.NewRequest("OpenReport", map[string]any{"persist": true}, "post", false)

	if err := q.Add(ctx, req); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Adding the same request again is a no-op.
	if err := q.Add(ctx, req); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	count, err := q.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	if err := q.Remove(ctx, req); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	// Removing an absent entry is not an error.
	if err := q.Remove(ctx, req); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}

	count, _ = q.Count(ctx)
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestRequestQueue_NextPreservesOrder(t *testing.T) {
	ctx := context.Background()
	q := NewRequestQueue()

	first := domain.NewRequest("First", nil, "post", false)
	second := domain.NewRequest("Second", nil, "post", false)
	_ = q.Add(ctx, first)
	_ = q.Add(ctx, second)

	next, err := q.Next(ctx)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("Next returned %v, want first entry", next)
	}

	_ = q.Remove(ctx, first)
	next, _ = q.Next(ctx)
	if next == nil || next.ID != second.ID {
		t.Fatalf("Next returned %v, want second entry", next)
	}
}

func TestRequestQueue_NextEmpty(t *testing.T) {
	q := NewRequestQueue()
	next, err := q.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if next != nil {
		t.Errorf("Next on empty queue = %v, want nil", next)
	}
}

func TestRequestQueue_AllAndClear(t *testing.T) {
	ctx := context.Background()
	q := NewRequestQueue()

	for i := 0; i < 3; i++ {
		_ = q.Add(ctx, domain.NewRequest("Cmd", nil, "post", false))
	}

	all, err := q.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	if err := q.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	count, _ := q.Count(ctx)
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}
