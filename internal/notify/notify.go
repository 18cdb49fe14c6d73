package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/keleris32/relay/internal/core/domain"
)

// Event pairs a request with the response it received.
type Event struct {
	Request  *domain.Request
	Response *domain.Response
}

// Sink receives successful responses, fire-and-forget.
type Sink interface {
	ResponseReceived(ctx context.Context, req *domain.Request, resp *domain.Response)
}

// LogSink logs each received response.
type LogSink struct{}

func (LogSink) ResponseReceived(ctx context.Context, req *domain.Request, resp *domain.Response) {
	slog.Debug("Response received", "command", req.Command, "jsonCode", resp.JSONCode)
}

// Broadcaster fans responses out to subscribers. A slow subscriber drops
// events rather than blocking the pipeline.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []chan Event
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a listener for response events.
func (b *Broadcaster) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) ResponseReceived(ctx context.Context, req *domain.Request, resp *domain.Response) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- Event{Request: req, Response: resp}:
		default:
		}
	}
}

// Multi forwards each response to every sink.
type Multi []Sink

func (m Multi) ResponseReceived(ctx context.Context, req *domain.Request, resp *domain.Response) {
	for _, s := range m {
		s.ResponseReceived(ctx, req, resp)
	}
}
