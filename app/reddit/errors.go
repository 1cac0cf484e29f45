package reddit

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAuth           = errors.New("Auth failed")
	ErrAPI            = errors.New("Reddit API")
	ErrNoDailyThreads = errors.New("No Daily Discussion posts found")
)

// StatusError is a non-200 response from Reddit. It matches ErrAPI.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", ErrAPI, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrAPI
}

// Permanent reports whether repeating the request cannot succeed.
// Rate limiting (429) is the only 4xx worth another attempt.
func (e *StatusError) Permanent() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}
