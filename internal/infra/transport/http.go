package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/keleris32/relay/internal/core/domain"
)

// HTTPTransport sends commands to the backend API as form-encoded HTTP
// requests. Commands flagged secure go to the secure endpoint.
type HTTPTransport struct {
	endpoint       string
	secureEndpoint string
	httpClient     *http.Client
}

// NewHTTPTransport creates an HTTP transport for the given endpoints.
// secureEndpoint falls back to endpoint when empty.
func NewHTTPTransport(endpoint, secureEndpoint string, timeout time.Duration) *HTTPTransport {
	if secureEndpoint == "" {
		secureEndpoint = endpoint
	}
	return &HTTPTransport{
		endpoint:       endpoint,
		secureEndpoint: secureEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send performs a single command request.
func (t *HTTPTransport) Send(
	ctx context.Context,
	command string,
	params map[string]any,
	method string,
	secure bool,
) (*domain.Response, error) {
	endpoint := t.endpoint
	if secure {
		endpoint = t.secureEndpoint
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, fmt.Sprintf("%v", v))
	}

	var req *http.Request
	var err error
	if strings.EqualFold(method, http.MethodGet) {
		target := fmt.Sprintf("%s?command=%s&%s", endpoint, url.QueryEscape(command), form.Encode())
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	} else {
		target := fmt.Sprintf("%s?command=%s", endpoint, url.QueryEscape(command))
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, mapNetError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapNetError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Error{Message: fmt.Sprintf("parse response: %v", err)}
	}

	return domain.NewResponse(raw), nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}

// mapNetError folds Go's network-stack errors into the classifier
// vocabulary: cancellation keeps its marker name, everything else that
// failed before a response arrived is a retryable fetch failure.
func mapNetError(err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Message: MsgDocumentLoadAborted, Name: NameAborted}
	}
	return &Error{Message: MsgFailedToFetch}
}
