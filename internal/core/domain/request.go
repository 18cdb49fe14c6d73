package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommandLog is the backend logging command. Requests carrying this command
// skip the "Making API request" log line so that logging a request cannot
// itself trigger another logged request.
const CommandLog = "Log"

// Request describes a single already-authenticated API call.
// Data may carry a "persist" flag marking the request as durable.
type Request struct {
	ID              string         `json:"id"`
	Command         string         `json:"command"`
	Data            map[string]any `json:"data,omitempty"`
	Type            string         `json:"type"`
	ShouldUseSecure bool           `json:"shouldUseSecure"`
	CreatedAt       time.Time      `json:"created_at"`
}

// NewRequest builds a Request with a fresh ID and creation timestamp.
func NewRequest(command string, data map[string]any, reqType string, secure bool) *Request {
	return &Request{
		ID:              uuid.NewString(),
		Command:         command,
		Data:            data,
		Type:            reqType,
		ShouldUseSecure: secure,
		CreatedAt:       time.Now().UTC(),
	}
}

// Persist reports whether the request is flagged as durable.
// Absent or non-boolean values default to false.
func (r *Request) Persist() bool {
	if r.Data == nil {
		return false
	}
	v, ok := r.Data["persist"].(bool)
	return ok && v
}

// ReturnValueList extracts the return-value-list hint from request data.
func (r *Request) ReturnValueList() string {
	if r.Data == nil {
		return ""
	}
	s, _ := r.Data["returnValueList"].(string)
	return s
}
