package models

import "fmt"

// OutcomeStatus classifies a finished search. The order matches the result
// codes reported by the search task.
type OutcomeStatus int

const (
	OutcomeOK OutcomeStatus = iota
	OutcomeInterrupted
	OutcomeGenericError
	OutcomeTooManyRequests
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeOK:
		return "ok"
	case OutcomeInterrupted:
		return "interrupted"
	case OutcomeGenericError:
		return "generic-error"
	case OutcomeTooManyRequests:
		return "too-many-requests"
	default:
		return fmt.Sprintf("OutcomeStatus(%d)", int(s))
	}
}

// Outcome is the result of one search request
type Outcome struct {
	Status OutcomeStatus
	// Body is the raw HTML returned by the service. Only set for OutcomeOK.
	Body string
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// Err is the underlying cause, kept for logging only.
	Err error
}

// Success builds an OK outcome carrying the response body verbatim
func Success(body string) Outcome {
	return Outcome{Status: OutcomeOK, Body: body, StatusCode: 200}
}

// RateLimited builds a too-many-requests outcome
func RateLimited(statusCode int) Outcome {
	return Outcome{Status: OutcomeTooManyRequests, StatusCode: statusCode}
}

// Interrupted builds an outcome for a cancelled or empty response
func Interrupted(err error) Outcome {
	return Outcome{Status: OutcomeInterrupted, Err: err}
}

// GenericError builds a failure outcome
func GenericError(statusCode int, err error) Outcome {
	return Outcome{Status: OutcomeGenericError, StatusCode: statusCode, Err: err}
}

// OK reports whether the search succeeded
func (o Outcome) OK() bool {
	return o.Status == OutcomeOK
}
