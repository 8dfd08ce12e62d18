package connection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnconnect/learnconnect.go/pkg/constants"
)

func TestMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		op   string
		want string
	}{
		{"nil", nil, "Login", ""},
		{"transport", &TransportError{BaseURL: "http://localhost:8000/api", Err: io.EOF}, "Login",
			"cannot reach the LearnConnect API at http://localhost:8000/api, make sure the server is running"},
		{"detail verbatim", &APIError{Op: "Join group", StatusCode: 403, Detail: "Not allowed"}, "Join group", "Not allowed"},
		{"no detail", &APIError{Op: "Join group", StatusCode: 403}, "Join group", "Join group failed"},
		{"no detail no op", &APIError{StatusCode: 500}, "Load groups", "Load groups failed"},
		{"decode", &DecodeError{Op: "Search", Err: io.ErrUnexpectedEOF}, "Search", "Search failed"},
		{"wrapped", fmt.Errorf("outer: %w", &APIError{Op: "Delete doubt", StatusCode: 404, Detail: "Doubt not found"}), "", "Doubt not found"},
		{"timeout", context.DeadlineExceeded, "Load dashboard", "Load dashboard failed: timed out"},
		{"sentinel", constants.ErrMutationPending, "Create group", "another change is still in progress"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Message(tc.err, tc.op))
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &APIError{StatusCode: 401})
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
	assert.True(t, IsNotFound(&APIError{StatusCode: 404}))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestTransportErrorUnwraps(t *testing.T) {
	err := &TransportError{BaseURL: "x", Err: io.EOF}
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewConfigFromString(t *testing.T) {
	cfg, err := NewConfigFromString("http://localhost:8000/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	require.NoError(t, cfg.Validate())

	_, err = NewConfigFromString("")
	require.ErrorIs(t, err, constants.ErrNoBaseURL)

	_, err = NewConfigFromString("ws://localhost:8000")
	require.Error(t, err)

	require.ErrorIs(t, (&Config{BaseURL: "http://x"}).Validate(), constants.ErrNoMarshaler)
}

func TestTokenSources(t *testing.T) {
	tok, ok := StaticToken("abc").Token(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = StaticToken("").Token(context.Background())
	assert.False(t, ok)
}
