package appliance

import (
	"fmt"
	"strings"
)

// TransportError reports a non-success HTTP response from the appliance.
// The response body is the failure message: the appliance returns plain
// diagnostic text on errors and the operator should see it verbatim.
type TransportError struct {
	Op         string // operation that failed, e.g. "read config"
	StatusCode int    // HTTP status code
	Body       string // raw response body text
}

// Error implements the error interface. The raw body is surfaced as the
// message when present.
func (e *TransportError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body != "" {
		return body
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// NewTransportError creates a TransportError for a failed operation.
func NewTransportError(op string, statusCode int, body []byte) *TransportError {
	return &TransportError{
		Op:         op,
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// NetworkError reports a transport-level failure (connection refused,
// timeout, DNS) before any HTTP status was received.
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a NetworkError wrapping the underlying cause.
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}
