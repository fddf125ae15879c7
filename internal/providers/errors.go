package providers

import (
	"errors"
	"fmt"
)

// ErrAuth signals that ESPN rejected the configured league credentials.
// Handlers map it to a client-facing bad request.
var ErrAuth = errors.New("espn auth rejected")

// HTTPError is a transport failure carrying the upstream status code.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Status, e.URL)
}

// StatusCode exposes the status for diagnostics (the schedule cache records
// it on failed refreshes).
func (e *HTTPError) StatusCode() int {
	return e.Status
}
