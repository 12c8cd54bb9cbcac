package menuapi

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every *Error, so callers can test for a menu API
// failure without caring about the status.
var ErrUnavailable = errors.New("menu api unavailable")

// Error is returned for transport failures, non-2xx responses and
// undecodable bodies. StatusCode is 0 when no response was received.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("menu api: %s: %v", e.Message, e.Err)
		}
		return "menu api: " + e.Message
	}
	return fmt.Sprintf("menu api: %d %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrUnavailable }

// Message returns a visitor-facing description of err: the API's own message
// for an *Error with a response, otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
