package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrInvalidResponse wraps decode and schema validation failures.
	ErrInvalidResponse = errors.New("invalid backend response")
	// ErrAnalysisFailed is returned by WaitForAnalysis when the backend reports FAILED.
	ErrAnalysisFailed = errors.New("resume analysis failed")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Operation string
	Status    int
	Body      string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("backend %s: status %d: %s", e.Operation, e.Status, body)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnavailable reports whether the call was refused by the open circuit breaker.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
