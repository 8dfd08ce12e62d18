package connection

import (
	"context"
	"errors"
	"net/url"
)

var errUnsupportedScheme = errors.New("scheme must be http or https")

// TokenSource yields the bearer token of the current session, if any.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, bool)

func (f TokenFunc) Token(ctx context.Context) (string, bool) {
	return f(ctx)
}

// StaticToken always yields the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, bool) {
	return string(t), t != ""
}

// Request describes one call against the API.
type Request struct {
	// Op names the operation in user-facing messages ("Create doubt").
	Op     string
	Method string
	// Path is appended to the base URL; it must already be escaped.
	Path  string
	Query url.Values
	// Body is encoded with the connection's Marshaler when non-nil.
	Body any
	// Auth attaches the bearer token. An authenticated request without a
	// token fails with constants.ErrAuthRequired before reaching the wire.
	Auth bool
}

// Connection performs API requests. out, when non-nil, receives the decoded
// response body.
type Connection interface {
	Do(ctx context.Context, req *Request, out any) error
}
