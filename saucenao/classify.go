package saucenao

import (
	"context"
	"errors"
	"net/http"

	"saucenao/models"
)

var errEmptyBody = errors.New("empty response body")

// Classify maps an HTTP status and body onto an outcome
func Classify(statusCode int, body string) models.Outcome {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return models.RateLimited(statusCode)
	case statusCode != http.StatusOK:
		return models.GenericError(statusCode, nil)
	case body == "":
		o := models.Interrupted(nil)
		o.StatusCode = statusCode
		return o
	default:
		return models.Success(body)
	}
}

// isInterruption reports whether a transport error means the search was
// cancelled or ran out of time rather than failed
func isInterruption(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
