// Package watchdog arms a timer per in-flight API request. A firing timer
// means the request has been pending unusually long; the response is to
// re-verify connectivity, never to abort the request.
package watchdog

import (
	"time"

	"github.com/keleris32/relay/internal/metrics"
)

// DefaultTimeout is how long a request may stay pending before a
// connectivity recheck is triggered.
const DefaultTimeout = 60 * time.Second

// Watchdog creates one-shot timers that trigger a connectivity recheck.
type Watchdog struct {
	timeout time.Duration
	recheck func()
}

// New creates a watchdog. recheck is invoked from the timer goroutine when
// a request stays pending past the timeout.
func New(timeout time.Duration, recheck func()) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Watchdog{timeout: timeout, recheck: recheck}
}

// Start arms a timer for one request and returns its stop func. Stop is
// safe to call after the timer has fired.
func (w *Watchdog) Start() (stop func()) {
	t := time.AfterFunc(w.timeout, func() {
		metrics.WatchdogRechecks.Inc()
		w.recheck()
	})
	return func() { t.Stop() }
}
