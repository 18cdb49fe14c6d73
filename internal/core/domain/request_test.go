package domain

import "testing"

func TestRequest_Persist(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want bool
	}{
		{"true flag", map[string]any{"persist": true}, true},
		{"false flag", map[string]any{"persist": false}, false},
		{"absent", map[string]any{"reportID": 7}, false},
		{"non-boolean", map[string]any{"persist": "true"}, false},
		{"nil data", nil, false},
	}

	for _, tt := range tests {
		req := NewRequest("OpenReport", tt.data, "post", false)
		if got := req.Persist(); got != tt.want {
			t.Errorf("%s: Persist() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewRequest(t *testing.T) {
	a := NewRequest("OpenReport", nil, "post", true)
	b := NewRequest("OpenReport", nil, "post", true)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("request IDs must be unique and non-empty, got %q and %q", a.ID, b.ID)
	}
	if !a.ShouldUseSecure {
		t.Error("ShouldUseSecure not carried through")
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse(map[string]any{
		"jsonCode":  float64(407),
		"requestID": "abc",
		"message":   "auth required",
	})
	if resp.JSONCode != 407 {
		t.Errorf("JSONCode = %d, want 407", resp.JSONCode)
	}
	if resp.RequestID != "abc" {
		t.Errorf("RequestID = %q, want abc", resp.RequestID)
	}
	if resp.Raw["message"] != "auth required" {
		t.Errorf("Raw payload not preserved: %v", resp.Raw)
	}

	empty := NewResponse(map[string]any{})
	if empty.JSONCode != 0 || empty.RequestID != "" {
		t.Errorf("empty payload decoded to %+v", empty)
	}
}
