// Package transport implements the wire layer for backend API commands.
//
// This package contains:
//   - Transport interface: core abstraction for sending a prepared command
//   - Error: the normalized transport failure shape (message + name)
//   - HTTPTransport: form-encoded command API over HTTP
//   - GRPCTransport: generic gRPC invocation with struct payloads
package transport

import (
	"context"
	"errors"

	"github.com/keleris32/relay/internal/core/domain"
)

// Known network-stack failure strings. The pipeline's failure classifier
// keys off these exact messages, so transports must map their platform
// errors into this vocabulary rather than invent new strings.
const (
	// MsgFailedToFetch is the canonical retryable failure message.
	// All other retryable variants are normalized to this one.
	MsgFailedToFetch = "Failed to fetch"

	// Interrupted-connection variants reported by mobile network stacks.
	MsgNetworkRequestFailed = "Network request failed"
	MsgInternetOffline      = "The Internet connection appears to be offline."

	// Variants produced by browsers when the page navigates away while a
	// request is in flight.
	MsgDocumentLoadAborted = "cancelled"
	MsgFetchAborted        = "NetworkError when attempting to fetch resource."

	// MsgLoadFailed is the iOS WebKit variant of a dropped connection.
	MsgLoadFailed = "Load failed"

	// NameAborted marks a request cancelled by the user.
	NameAborted = "AbortError"
)

// Transport sends a prepared command to the backend API.
type Transport interface {
	Send(
		ctx context.Context,
		command string,
		params map[string]any,
		method string,
		secure bool,
	) (*domain.Response, error)
}

// Error is a transport-level failure. Classification depends only on
// Message and Name, never on wrapped causes.
type Error struct {
	Message string
	Name    string
}

// NewError creates a transport error with the given message.
func NewError(message string) *Error {
	return &Error{Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// AsError extracts the transport error shape from err. Errors raised
// outside the transport layer fall back to a plain message with no name,
// which the classifier treats as unknown.
func AsError(err error) *Error {
	var terr *Error
	if errors.As(err, &terr) {
		return terr
	}
	return &Error{Message: err.Error()}
}
