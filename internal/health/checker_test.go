package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/keleris32/relay/internal/infra/storage/memory"
)

func TestChecker_StartsOnline(t *testing.T) {
	c := NewChecker([]string{"http://localhost:1"}, time.Minute)
	if !c.Online() {
		t.Error("checker must assume online until proven otherwise")
	}
}

func TestChecker_Recheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD probe, got %s", r.Method)
		}
	}))
	defer server.Close()

	c := NewChecker([]string{server.URL}, time.Minute)
	c.Recheck()
	if !c.Online() {
		t.Error("reachable endpoint reported offline")
	}
}

func TestChecker_OfflineAndRecovery(t *testing.T) {
	c := NewChecker([]string{"http://localhost:1"}, time.Minute)

	c.Recheck()
	if c.Online() {
		t.Fatal("unreachable endpoint reported online")
	}

	// Burst collapse: a recheck within a second of the last is skipped.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()
	c.endpoints = []string{server.URL}
	c.Recheck()
	if c.Online() {
		t.Error("burst recheck was not collapsed")
	}

	// Past the collapse window the recovery is observed.
	c.mu.Lock()
	c.lastCheck = time.Now().Add(-2 * time.Second)
	c.mu.Unlock()
	c.Recheck()
	if !c.Online() {
		t.Error("recovered endpoint reported offline")
	}
}

func TestChecker_AnyEndpointSuffices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	c := NewChecker([]string{"http://localhost:1", server.URL}, time.Minute)
	c.Recheck()
	if !c.Online() {
		t.Error("one reachable endpoint must be enough")
	}
}

func TestServer_Health(t *testing.T) {
	checker := NewChecker(nil, time.Minute)
	s := NewServer(checker, memory.NewRequestQueue(), 0)
	ts := httptest.NewServer(s.server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	checker.online.Store(false)
	resp, err = http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when offline", resp.StatusCode)
	}
}
