package domain

import (
	"errors"
	"fmt"
)

// ErrServerUnreachable is returned when the generator service cannot be reached.
var ErrServerUnreachable = errors.New("server unreachable")

// ErrMalformedResponse is returned when the generator answers with a payload
// that does not honour the API contract.
var ErrMalformedResponse = errors.New("malformed response")

// RemoteError is a failure reported by the generator itself (success=false).
type RemoteError struct {
	Operation Operation
	Message   string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Operation)
	}
	return e.Message
}

// TransportError wraps failures that happened before a valid answer was
// received: dial errors, non-2xx statuses and contract violations.
type TransportError struct {
	Operation Operation
	Err       error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
