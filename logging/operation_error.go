package logging

import (
	"errors"
	"fmt"
)

// OperationError ties a failure to the step of a search it happened in
// (image encoding, throttling, the HTTP round trip) and to the request ID
// that the log lines of that search carry.
type OperationError struct {
	Operation string
	RequestID string
	Err       error
}

func (e *OperationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s [request %s]: %v", e.Operation, e.RequestID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewOperationError wraps err, returning nil when err is nil
func NewOperationError(operation, requestID string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, RequestID: requestID, Err: err}
}

// RequestID returns the request ID of the innermost search step in err's
// chain, or "" when err did not come out of a search
func RequestID(err error) string {
	id := ""
	for err != nil {
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			break
		}
		if opErr.RequestID != "" {
			id = opErr.RequestID
		}
		err = opErr.Err
	}
	return id
}
