package analytics

import (
	"errors"
	"fmt"
)

// ErrSessionExpired means the backend rejected the token (or there was
// none to send). The session store has already been cleared.
var ErrSessionExpired = errors.New("session expired")

// ErrMalformedResponse means a 2xx response body was not valid JSON.
var ErrMalformedResponse = errors.New("malformed analytics response")

// APIError is any other non-2xx response.
type APIError struct {
	Status     int
	StatusText string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.Status, e.StatusText)
}

// IsSessionExpired reports whether err is, or wraps, ErrSessionExpired.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
