// Package fetcher retrieves stats pages over HTTP, retrying only on rate
// limiting.
package fetcher

import (
	"context"
	"errors"
	"fmt"
)

// Fetcher defines the interface for downloading a remote page.
type Fetcher interface {
	// Fetch returns the UTF-8 body of the page at url.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ErrRetriesExhausted is returned when every attempt was rate limited.
var ErrRetriesExhausted = errors.New("fetcher: retries exhausted")

// StatusError reports a non-retryable HTTP status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetcher: unexpected status %d from %s", e.StatusCode, e.URL)
}

// StatusCode extracts the HTTP status carried by err, or 0 when err did not
// come from a response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
