package views

import (
	"context"
	"strings"

	"github.com/learnconnect/learnconnect.go/pkg/fetcher"
	"github.com/learnconnect/learnconnect.go/pkg/guard"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/mutation"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

// Doubts is the question board, optionally filtered by topic.
type Doubts struct {
	api   API
	guard *guard.Guard
	store *state.Store[[]models.Doubt]
	fetch *fetcher.Fetcher[[]models.Doubt]
	coord *mutation.Coordinator[models.Doubt]
	form  *mutation.Form[models.CreateDoubtRequest]
	user  viewer
}

func NewDoubts(deps Deps) *Doubts {
	store := state.NewStore[[]models.Doubt]()
	return &Doubts{
		api:   deps.API,
		guard: deps.guard(),
		store: store,
		fetch: fetcher.New(store, func(ctx context.Context, p fetcher.Params) ([]models.Doubt, error) {
			return deps.API.ListDoubts(ctx, p.Filter)
		}, fetcher.WithOp("Load doubts"), fetcher.WithLogger(deps.Logger)),
		coord: mutation.New(store, mutation.WithLogger(deps.Logger)),
		form:  mutation.NewForm(models.CreateDoubtRequest{}),
	}
}

func (v *Doubts) Mount(ctx context.Context, topic string) error {
	sess, err := v.guard.Enter(ctx)
	if err != nil {
		return err
	}
	v.user.set(sess.User)
	return v.guard.Observe(ctx, v.fetch.Mount(ctx, fetcher.Params{Filter: strings.TrimSpace(topic)}))
}

// SetFilter reloads the board for topic. An empty topic shows every doubt.
func (v *Doubts) SetFilter(ctx context.Context, topic string) error {
	return v.guard.Observe(ctx, v.fetch.SetParams(ctx, fetcher.Params{Filter: strings.TrimSpace(topic)}))
}

func (v *Doubts) Filter() string {
	return v.fetch.Params().Filter
}

func (v *Doubts) Refresh(ctx context.Context) error {
	return v.guard.Observe(ctx, v.fetch.Refresh(ctx))
}

func (v *Doubts) Unmount() {
	v.fetch.Unmount()
}

func (v *Doubts) Form() *mutation.Form[models.CreateDoubtRequest] {
	return v.form
}

// Create posts the form and puts the new doubt at the top of the board.
func (v *Doubts) Create(ctx context.Context) error {
	return v.guard.Observe(ctx, v.form.Submit(ctx, func(ctx context.Context, p models.CreateDoubtRequest) error {
		return v.coord.Create(ctx, state.Prepend, func(ctx context.Context) (models.Doubt, error) {
			return deref(func(ctx context.Context) (*models.Doubt, error) { return v.api.CreateDoubt(ctx, p) })(ctx)
		})
	}))
}

// Delete removes doubt id once the server confirms.
func (v *Doubts) Delete(ctx context.Context, id int) error {
	return v.guard.Observe(ctx, v.coord.Remove(ctx, id, func(ctx context.Context) error {
		return v.api.DeleteDoubt(ctx, id)
	}))
}

// CanDelete reports whether the signed-in user wrote d.
func (v *Doubts) CanDelete(d models.Doubt) bool {
	return d.CreatedBy != 0 && d.CreatedBy == v.user.get().ID
}

func (v *Doubts) Pending() bool {
	return v.coord.Pending()
}

func (v *Doubts) DismissError() {
	v.coord.ClearError()
}

func (v *Doubts) Screen() Screen[[]models.Doubt] {
	return screenOf(v.store.Snapshot())
}
