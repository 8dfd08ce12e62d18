package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// TransportError means the request never produced an HTTP response,
// usually because the API is not running.
type TransportError struct {
	BaseURL string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot reach the LearnConnect API at %s, make sure the server is running", e.BaseURL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response. Detail holds the server's message when
// the body carried one.
type APIError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return failed(e.Op)
}

// DecodeError is a 2xx response whose body could not be decoded. It is
// reported to users like a rejection without detail.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return failed(e.Op)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func failed(op string) string {
	if op == "" {
		return "request failed"
	}
	return op + " failed"
}

// StatusCode returns the HTTP status of an APIError anywhere in err's chain,
// or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Message converts err into the text shown to the user. Errors that carry
// no user-facing wording fall back to "<op> failed".
func Message(err error, op string) string {
	if err == nil {
		return ""
	}

	var transportErr *TransportError
	var apiErr *APIError
	var decodeErr *DecodeError
	switch {
	case errors.As(err, &transportErr):
		return transportErr.Error()
	case errors.As(err, &apiErr):
		if apiErr.Detail == "" && apiErr.Op == "" {
			return failed(op)
		}
		return apiErr.Error()
	case errors.As(err, &decodeErr):
		if decodeErr.Op == "" {
			return failed(op)
		}
		return decodeErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return failed(op) + ": timed out"
	}

	return err.Error()
}
