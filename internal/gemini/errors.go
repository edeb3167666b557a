package gemini

import "fmt"

// TransportError covers failures before a response body was decoded:
// request construction, network I/O, reading the body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gemini: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx HTTP response from the API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini: api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini: api error (status %d)", e.StatusCode)
}

// ContentError means the response decoded fine but held no usable text.
type ContentError struct {
	Reason string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("gemini: %s", e.Reason)
}
