package notify

import (
	"context"
	"testing"

	"github.com/keleris32/relay/internal/core/domain"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster()
	subA := b.Subscribe()
	subB := b.Subscribe()

	req := domain.NewRequest("OpenReport", nil, "post", false)
	resp := domain.NewResponse(map[string]any{"jsonCode": float64(200)})

	b.ResponseReceived(context.Background(), req, resp)

	for _, ch := range []<-chan Event{subA, subB} {
		select {
		case ev := <-ch:
			if ev.Request != req || ev.Response != resp {
				t.Errorf("event = %+v, want original request and response", ev)
			}
		default:
			t.Error("subscriber received nothing")
		}
	}
}

func TestBroadcaster_SlowSubscriberDrops(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()

	req := domain.NewRequest("Cmd", nil, "post", false)
	resp := domain.NewResponse(map[string]any{})

	// Fill the buffer and then some; the overflow must not block.
	for i := 0; i < 32; i++ {
		b.ResponseReceived(context.Background(), req, resp)
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received != 16 {
		t.Errorf("received = %d, want 16 (buffer size)", received)
	}
}

func TestMulti(t *testing.T) {
	b1 := NewBroadcaster()
	b2 := NewBroadcaster()
	ch1 := b1.Subscribe()
	ch2 := b2.Subscribe()

	m := Multi{b1, b2}
	m.ResponseReceived(context.Background(), domain.NewRequest("Cmd", nil, "post", false), domain.NewResponse(map[string]any{}))

	if len(ch1) != 1 || len(ch2) != 1 {
		t.Errorf("sink deliveries = %d/%d, want 1/1", len(ch1), len(ch2))
	}
}
