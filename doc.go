// Package learnconnect is a Go client for the LearnConnect learning
// platform API.
//
// # Client
//
// [Client] wraps one HTTP connection and exposes a typed method per API
// endpoint: authentication, the dashboard, topic search, study groups and
// the doubts board. Create it from a base URL with [FromURLString], or from
// an existing [github.com/learnconnect/learnconnect.go/pkg/connection.Config]
// with [New].
//
// Authenticated endpoints read the bearer token from the configured
// [github.com/learnconnect/learnconnect.go/pkg/connection.TokenSource],
// normally a [github.com/learnconnect/learnconnect.go/pkg/credential.Store].
// Calling one without a session fails with
// [github.com/learnconnect/learnconnect.go/pkg/constants.ErrAuthRequired]
// before anything is sent.
//
// # Errors
//
// Every method returns one of:
//   - [github.com/learnconnect/learnconnect.go/pkg/connection.TransportError] when the API could not be reached
//   - [github.com/learnconnect/learnconnect.go/pkg/connection.APIError] for a non-2xx response
//   - [github.com/learnconnect/learnconnect.go/pkg/connection.DecodeError] for a 2xx response with an unusable body
//
// Use [github.com/learnconnect/learnconnect.go/pkg/connection.Message] to
// turn any of them into the text shown to a user.
//
// # Views
//
// The client holds no view state. The controllers in
// [github.com/learnconnect/learnconnect.go/pkg/views] combine it with the
// session guard, the fetcher and the mutation coordinator.
package learnconnect
