package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Checker verifies connectivity to the backend API endpoints. The request
// watchdog calls Recheck when a dispatch stays pending unusually long; a
// background loop keeps the state fresh otherwise.
type Checker struct {
	endpoints  []string
	httpClient *http.Client
	interval   time.Duration
	log        *slog.Logger

	online    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

// NewChecker creates a connectivity checker for the given endpoints.
func NewChecker(endpoints []string, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &Checker{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		interval:   interval,
		log:        slog.Default().With("component", "health"),
	}
	c.online.Store(true)
	return c
}

// Online reports the last observed connectivity state.
func (c *Checker) Online() bool {
	return c.online.Load()
}

// Recheck probes all endpoints now. The backend is considered reachable if
// any endpoint answers.
func (c *Checker) Recheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	c.check(ctx)
}

// Start runs the periodic connectivity loop until ctx is done.
func (c *Checker) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.check(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.check(ctx)
		}
	}
}

func (c *Checker) check(ctx context.Context) {
	// Collapse bursts of watchdog-triggered rechecks.
	c.mu.Lock()
	if time.Since(c.lastCheck) < time.Second {
		c.mu.Unlock()
		return
	}
	c.lastCheck = time.Now()
	c.mu.Unlock()

	if len(c.endpoints) == 0 {
		return
	}

	var reachable atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	for _, endpoint := range c.endpoints {
		g.Go(func() error {
			if err := c.probe(gctx, endpoint); err != nil {
				c.log.Debug("Endpoint probe failed", "endpoint", endpoint, "error", err)
				return nil
			}
			reachable.Store(true)
			return nil
		})
	}
	_ = g.Wait()

	was := c.online.Swap(reachable.Load())
	if was != reachable.Load() {
		c.log.Info("Connectivity state changed", "online", reachable.Load())
	}
}

func (c *Checker) probe(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create probe: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	resp.Body.Close()
	return nil
}
