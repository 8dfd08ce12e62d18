package views

import (
	"context"

	"github.com/learnconnect/learnconnect.go/pkg/fetcher"
	"github.com/learnconnect/learnconnect.go/pkg/guard"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/mutation"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

// Groups lists study groups and lets the user create and join them.
type Groups struct {
	api   API
	guard *guard.Guard
	store *state.Store[[]models.Group]
	fetch *fetcher.Fetcher[[]models.Group]
	coord *mutation.Coordinator[models.Group]
	form  *mutation.Form[models.CreateGroupRequest]
	user  viewer
}

func NewGroups(deps Deps) *Groups {
	store := state.NewStore[[]models.Group]()
	return &Groups{
		api:   deps.API,
		guard: deps.guard(),
		store: store,
		fetch: fetcher.New(store, func(ctx context.Context, _ fetcher.Params) ([]models.Group, error) {
			return deps.API.ListGroups(ctx)
		}, fetcher.WithOp("Load groups"), fetcher.WithLogger(deps.Logger)),
		coord: mutation.New(store, mutation.WithLogger(deps.Logger)),
		form:  mutation.NewForm(models.CreateGroupRequest{}),
	}
}

func (v *Groups) Mount(ctx context.Context) error {
	sess, err := v.guard.Enter(ctx)
	if err != nil {
		return err
	}
	v.user.set(sess.User)
	return v.guard.Observe(ctx, v.fetch.Mount(ctx, fetcher.Params{}))
}

func (v *Groups) Refresh(ctx context.Context) error {
	return v.guard.Observe(ctx, v.fetch.Refresh(ctx))
}

func (v *Groups) Unmount() {
	v.fetch.Unmount()
}

// Form is the creation form. Create submits it.
func (v *Groups) Form() *mutation.Form[models.CreateGroupRequest] {
	return v.form
}

// Create submits the form and appends the created group. On success the
// form resets and closes.
func (v *Groups) Create(ctx context.Context) error {
	return v.guard.Observe(ctx, v.form.Submit(ctx, func(ctx context.Context, p models.CreateGroupRequest) error {
		return v.coord.Create(ctx, state.Append, func(ctx context.Context) (models.Group, error) {
			return deref(func(ctx context.Context) (*models.Group, error) { return v.api.CreateGroup(ctx, p) })(ctx)
		})
	}))
}

// Join adds the user to group id and shows the server's updated group in
// place. It never navigates.
func (v *Groups) Join(ctx context.Context, id int) error {
	return v.guard.Observe(ctx, v.coord.Replace(ctx, id, func(ctx context.Context) (models.Group, error) {
		return deref(func(ctx context.Context) (*models.Group, error) { return v.api.JoinGroup(ctx, id) })(ctx)
	}))
}

// IsMember reports whether the signed-in user belongs to g.
func (v *Groups) IsMember(g models.Group) bool {
	return g.HasMember(v.user.get().ID)
}

func (v *Groups) Pending() bool {
	return v.coord.Pending()
}

func (v *Groups) DismissError() {
	v.coord.ClearError()
}

func (v *Groups) Screen() Screen[[]models.Group] {
	return screenOf(v.store.Snapshot())
}
