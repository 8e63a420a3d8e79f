package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks requests that never produced a server response.
	ErrTransport = errors.New("request could not be dispatched")
	// ErrUnauthorized matches 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrServer matches 5xx responses.
	ErrServer = errors.New("server error")
)

// TransportError reports a request that failed before a response arrived.
// It matches both ErrTransport and the underlying cause.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Method, e.Path, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// StatusError is a non-2xx server response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, msg)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrServer:
		return e.Code >= 500
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// server response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
