package domain

// Response is a decoded backend API response.
// Raw holds the full decoded payload; JSONCode is extracted for routing.
type Response struct {
	JSONCode  int
	RequestID string
	Raw       map[string]any
}

// NewResponse builds a Response from a decoded payload map.
func NewResponse(raw map[string]any) *Response {
	resp := &Response{Raw: raw}
	if code, ok := raw["jsonCode"].(float64); ok {
		resp.JSONCode = int(code)
	}
	if id, ok := raw["requestID"].(string); ok {
		resp.RequestID = id
	}
	return resp
}
