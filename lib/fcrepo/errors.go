package fcrepo

import (
	"errors"
	"fmt"
	"net/http"
)

// sentinel errors for common repository responses
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrOutsideRepository = errors.New("uri outside of repository")
)

// RequestError is the single failure kind of a dispatched action: a transport failure
// (StatusCode 0, Err set) or a response status outside the action's success set.
type RequestError struct {
	Label      string // action specific label, e.g. "Error creating datastream"
	StatusCode int
	Status     string
	Body       []byte // raw response body
	Err        error  // transport error, nil for status failures
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	label := e.Label
	if label == "" {
		label = "request failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", label, e.Err)
	}
	return fmt.Sprintf("%s: HTTP %d %s", label, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap returns the transport error or a sentinel matching the status code.
func (e *RequestError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return nil
	}
}
