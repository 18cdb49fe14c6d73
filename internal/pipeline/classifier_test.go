package pipeline

import (
	"testing"

	"github.com/keleris32/relay/internal/infra/transport"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message   string
		name      string
		outcome   Outcome
		normalize bool
		quiet     bool
	}{
		{"Failed to fetch", "", OutcomeRetryable, false, false},
		{"Network request failed", "", OutcomeRetryable, true, false},
		{"The Internet connection appears to be offline.", "", OutcomeRetryable, true, false},
		{"cancelled", "", OutcomeRetryable, true, false},
		{"NetworkError when attempting to fetch resource.", "", OutcomeRetryable, true, false},
		{"Load failed", "", OutcomeRetryable, true, true},
		{"cancelled", "AbortError", OutcomeRetryable, true, false}, // message match wins over name
		{"The user aborted a request.", "AbortError", OutcomeCancelled, false, false},
		{"", "AbortError", OutcomeCancelled, false, false},
		{"something exploded", "", OutcomeUnknown, false, false},
		{"http 500: internal error", "", OutcomeUnknown, false, false},
		{"", "", OutcomeUnknown, false, false},
	}

	for _, tt := range tests {
		got := Classify(tt.message, tt.name)
		if got.Outcome != tt.outcome {
			t.Errorf("Classify(%q, %q).Outcome = %v, want %v", tt.message, tt.name, got.Outcome, tt.outcome)
		}
		if got.Normalize != tt.normalize {
			t.Errorf("Classify(%q, %q).Normalize = %v, want %v", tt.message, tt.name, got.Normalize, tt.normalize)
		}
		if got.Quiet != tt.quiet {
			t.Errorf("Classify(%q, %q).Quiet = %v, want %v", tt.message, tt.name, got.Quiet, tt.quiet)
		}
	}
}

func TestClassify_MessagesAreCaseSensitive(t *testing.T) {
	if got := Classify("failed to fetch", ""); got.Outcome != OutcomeUnknown {
		t.Errorf("lowercased variant classified %v, want unknown", got.Outcome)
	}
	if got := Classify(transport.MsgLoadFailed+" ", ""); got.Outcome != OutcomeUnknown {
		t.Errorf("padded variant classified %v, want unknown", got.Outcome)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeRetryable, "retryable"},
		{OutcomeCancelled, "cancelled"},
		{OutcomeUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}
