package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a request that never produced a usable HTTP response:
// transport failure, timeout, or a 5xx that persisted through retries.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-success response the server meant to send.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Code, e.Body)
}

// DecodeError is a response body that did not match the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// IsForbidden reports whether err is a 401/403 from the backend.
func IsForbidden(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusForbidden || se.Code == http.StatusUnauthorized
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsDecode reports whether err is a response body of the wrong shape.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
