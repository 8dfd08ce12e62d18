package constants

import "errors"

// Errors
var (
	ErrAuthRequired    = errors.New("authentication required")
	ErrNoBaseURL       = errors.New("base url not set")
	ErrNoMarshaler     = errors.New("marshaler is not set")
	ErrNoUnmarshaler   = errors.New("unmarshaler is not set")
	ErrInvalidSession  = errors.New("session must carry both a token and a user")
	ErrSuperseded      = errors.New("response superseded by a newer request")
	ErrUnmounted       = errors.New("view is not mounted")
	ErrMutationPending = errors.New("another change is still in progress")
	ErrEmptyQuery      = errors.New("search query is empty")
	ErrInvalidID       = errors.New("identifier must be a positive integer")
	ErrMissingID       = errors.New("response carries no identifier")
)
