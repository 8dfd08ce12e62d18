// Package views wires the session guard, the fetcher and the mutation
// coordinator into one controller per screen of the LearnConnect app.
//
// A front end creates a controller, calls Mount when the screen is
// entered and Unmount when it is left, and renders Screen after every
// change. Controllers never render anything themselves.
package views

import (
	"context"
	"sync/atomic"

	"github.com/learnconnect/learnconnect.go/pkg/guard"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

// API is the subset of the LearnConnect client the views call.
// *learnconnect.Client implements it.
type API interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.LoginResponse, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Search(ctx context.Context, query string) (*models.SearchResults, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error)
	GetGroup(ctx context.Context, id int) (*models.Group, error)
	JoinGroup(ctx context.Context, id int) (*models.Group, error)
	LeaveGroup(ctx context.Context, id int) error
	ShareResource(ctx context.Context, groupID int, req models.ShareResourceRequest) (*models.Resource, error)
	ListDoubts(ctx context.Context, topic string) ([]models.Doubt, error)
	CreateDoubt(ctx context.Context, req models.CreateDoubtRequest) (*models.Doubt, error)
	DeleteDoubt(ctx context.Context, id int) error
}

// SessionStore is the credential store as seen by the views.
// *credential.Store implements it.
type SessionStore interface {
	guard.SessionStore
	SetSession(ctx context.Context, sess models.Session) error
}

// Deps bundles what every controller needs.
type Deps struct {
	API      API
	Sessions SessionStore
	Nav      guard.Navigator
	Logger   logger.Logger
}

func (d Deps) guard() *guard.Guard {
	return guard.New(d.Sessions, d.Nav, d.Logger)
}

// Screen is what a mounted view shows. Phase is one of PhaseLoading,
// PhaseSuccess or PhaseError, never PhaseIdle. ErrorMessage may accompany
// a successful phase when a mutation failed.
type Screen[T any] struct {
	Phase        state.Phase
	Data         T
	ErrorMessage string
}

func screenOf[T any](s state.Snapshot[T]) Screen[T] {
	phase := s.Phase
	if phase == state.PhaseIdle {
		phase = state.PhaseLoading
	}
	return Screen[T]{Phase: phase, Data: s.Data, ErrorMessage: s.ErrorMessage}
}

// viewer is the signed-in user recorded at mount. Front ends read it from
// other goroutines while a remount may be replacing it.
type viewer struct {
	p atomic.Pointer[models.User]
}

func (v *viewer) set(u models.User) {
	v.p.Store(&u)
}

func (v *viewer) get() models.User {
	if u := v.p.Load(); u != nil {
		return *u
	}
	return models.User{}
}

func deref[T any](load func(context.Context) (*T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		v, err := load(ctx)
		if err != nil || v == nil {
			var zero T
			return zero, err
		}
		return *v, nil
	}
}
