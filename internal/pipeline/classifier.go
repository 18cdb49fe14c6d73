package pipeline

import (
	"github.com/keleris32/relay/internal/infra/transport"
)

// Outcome is the final disposition of a failed transport call.
type Outcome int

const (
	// OutcomeRetryable is a transient network failure. The error is
	// propagated to the caller and the persisted queue entry survives so
	// the replay mechanism can resubmit it.
	OutcomeRetryable Outcome = iota

	// OutcomeCancelled means the user abandoned the request. Swallowed.
	OutcomeCancelled

	// OutcomeUnknown is an unrecognized failure. Swallowed, but logged
	// loudly for operator follow-up.
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRetryable:
		return "retryable"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying a transport failure.
type Classification struct {
	Outcome Outcome

	// Normalize indicates the propagated error must carry the canonical
	// "Failed to fetch" message instead of the platform-specific original.
	// Losing the original detail is intentional: callers only distinguish
	// retryable from not.
	Normalize bool

	// Quiet suppresses the warning log for this variant.
	Quiet bool
}

// retryableMessages maps known platform network-error strings to their
// classification. All of them re-raise before queue cleanup is reached.
var retryableMessages = map[string]Classification{
	// Canonical form: propagated unchanged.
	transport.MsgFailedToFetch: {Outcome: OutcomeRetryable},

	// Mobile stacks report an interrupted connection with their own strings.
	transport.MsgNetworkRequestFailed: {Outcome: OutcomeRetryable, Normalize: true},
	transport.MsgInternetOffline:      {Outcome: OutcomeRetryable, Normalize: true},

	// Browsers abort in-flight fetches when the page navigates away.
	transport.MsgDocumentLoadAborted: {Outcome: OutcomeRetryable, Normalize: true},
	transport.MsgFetchAborted:        {Outcome: OutcomeRetryable, Normalize: true},

	// iOS WebKit "Load failed". Unlike the variants above this one logs
	// nothing; like every retryable variant it re-raises before queue
	// cleanup. The asymmetry is intentional, do not even it out.
	transport.MsgLoadFailed: {Outcome: OutcomeRetryable, Normalize: true, Quiet: true},
}

// Classify maps a transport failure to its outcome. It depends only on the
// error message and name, evaluated in order: known retryable strings first,
// then the cancellation marker, then unknown.
func Classify(message, name string) Classification {
	if cls, ok := retryableMessages[message]; ok {
		return cls
	}
	if name == transport.NameAborted {
		return Classification{Outcome: OutcomeCancelled}
	}
	return Classification{Outcome: OutcomeUnknown}
}
