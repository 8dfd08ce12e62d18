// Package guard gates views behind the stored session.
package guard

import (
	"context"
	"sync"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/models"
)

type State int

const (
	StateUnauthorized State = iota
	StateAuthorized
)

func (s State) String() string {
	if s == StateAuthorized {
		return "Authorized"
	}
	return "Unauthorized"
}

// Navigator moves the front end to another route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// SessionStore is the part of the credential store a guard needs.
type SessionStore interface {
	Session(ctx context.Context) (models.Session, bool)
	ClearSession(ctx context.Context) error
}

type Guard struct {
	sessions SessionStore
	nav      Navigator
	logger   logger.Logger

	mu    sync.Mutex
	state State
}

func New(sessions SessionStore, nav Navigator, l logger.Logger) *Guard {
	return &Guard{sessions: sessions, nav: nav, logger: logger.OrNop(l)}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Enter checks the session on mount. Without one the guard redirects to
// the login route and returns constants.ErrAuthRequired; the caller must
// not fetch anything.
func (g *Guard) Enter(ctx context.Context) (models.Session, error) {
	sess, ok := g.sessions.Session(ctx)
	if !ok {
		g.setState(StateUnauthorized)
		g.logger.Debug("no session, redirecting", "route", constants.RouteLogin)
		g.nav.Navigate(constants.RouteLogin)
		return models.Session{}, constants.ErrAuthRequired
	}

	g.setState(StateAuthorized)
	return sess, nil
}

// Observe inspects the error of a guarded request. A 401 means the session
// was revoked server side: it is cleared and the user sent to login. err
// is returned unchanged.
func (g *Guard) Observe(ctx context.Context, err error) error {
	if err == nil || !connection.IsUnauthorized(err) {
		return err
	}

	g.logger.Info("session rejected by the API, signing out")
	if clearErr := g.sessions.ClearSession(ctx); clearErr != nil {
		g.logger.Warn("failed to clear session", "error", clearErr.Error())
	}
	g.setState(StateUnauthorized)
	g.nav.Navigate(constants.RouteLogin)
	return err
}

// Logout clears the session and returns to the landing route.
func (g *Guard) Logout(ctx context.Context) error {
	err := g.sessions.ClearSession(ctx)
	g.setState(StateUnauthorized)
	g.nav.Navigate(constants.RouteHome)
	return err
}

func (g *Guard) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}
