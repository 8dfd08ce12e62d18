package views

import (
	"context"

	"github.com/learnconnect/learnconnect.go/pkg/guard"
	"github.com/learnconnect/learnconnect.go/pkg/models"
)

// Header shows who is signed in and offers logout.
type Header struct {
	sessions SessionStore
	guard    *guard.Guard
}

func NewHeader(deps Deps) *Header {
	return &Header{sessions: deps.Sessions, guard: deps.guard()}
}

// User returns the signed-in user, if any.
func (v *Header) User(ctx context.Context) (models.User, bool) {
	sess, ok := v.sessions.Session(ctx)
	return sess.User, ok
}

// Logout clears the session and navigates home.
func (v *Header) Logout(ctx context.Context) error {
	return v.guard.Logout(ctx)
}
