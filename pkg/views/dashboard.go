package views

import (
	"context"

	"github.com/learnconnect/learnconnect.go/pkg/fetcher"
	"github.com/learnconnect/learnconnect.go/pkg/guard"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

type Dashboard struct {
	guard *guard.Guard
	store *state.Store[models.Dashboard]
	fetch *fetcher.Fetcher[models.Dashboard]
	user  viewer
}

func NewDashboard(deps Deps) *Dashboard {
	store := state.NewStore[models.Dashboard]()
	load := deref(deps.API.Dashboard)
	return &Dashboard{
		guard: deps.guard(),
		store: store,
		fetch: fetcher.New(store, func(ctx context.Context, _ fetcher.Params) (models.Dashboard, error) {
			return load(ctx)
		}, fetcher.WithErrorPolicy(fetcher.Clear), fetcher.WithOp("Load dashboard"), fetcher.WithLogger(deps.Logger)),
	}
}

// Mount checks the session and loads the dashboard. Without a session it
// redirects to login and loads nothing.
func (v *Dashboard) Mount(ctx context.Context) error {
	sess, err := v.guard.Enter(ctx)
	if err != nil {
		return err
	}
	v.user.set(sess.User)
	return v.guard.Observe(ctx, v.fetch.Mount(ctx, fetcher.Params{}))
}

func (v *Dashboard) Refresh(ctx context.Context) error {
	return v.guard.Observe(ctx, v.fetch.Refresh(ctx))
}

func (v *Dashboard) Unmount() {
	v.fetch.Unmount()
}

// User is the signed-in user the dashboard greets.
func (v *Dashboard) User() models.User {
	return v.user.get()
}

func (v *Dashboard) Screen() Screen[models.Dashboard] {
	return screenOf(v.store.Snapshot())
}

// Counts returns the number of recent searches, joined groups and
// recommended topics.
func (v *Dashboard) Counts() (searches, groups, topics int) {
	d := v.store.Snapshot().Data
	return len(d.RecentSearches), len(d.JoinedGroups), len(d.RecommendedTopics)
}
