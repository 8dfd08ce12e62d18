package views

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/fetcher"
	"github.com/learnconnect/learnconnect.go/pkg/guard"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/mutation"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

// GroupDetail shows one group with its members and resources. The group
// is addressed by the path parameter given to Mount.
type GroupDetail struct {
	api   API
	nav   guard.Navigator
	log   logger.Logger
	guard *guard.Guard
	store *state.Store[models.Group]
	fetch *fetcher.Fetcher[models.Group]
	share *mutation.Form[models.ShareResourceRequest]
	user  viewer

	leaving atomic.Bool
}

func NewGroupDetail(deps Deps) *GroupDetail {
	store := state.NewStore[models.Group]()
	return &GroupDetail{
		api:   deps.API,
		nav:   deps.Nav,
		log:   logger.OrNop(deps.Logger),
		guard: deps.guard(),
		store: store,
		fetch: fetcher.New(store, func(ctx context.Context, p fetcher.Params) (models.Group, error) {
			id, err := parseID(p.PathParam)
			if err != nil {
				return models.Group{}, err
			}
			return deref(func(ctx context.Context) (*models.Group, error) { return deps.API.GetGroup(ctx, id) })(ctx)
		}, fetcher.WithErrorPolicy(fetcher.Clear), fetcher.WithOp("Load group"), fetcher.WithLogger(deps.Logger)),
		share: mutation.NewForm(models.ShareResourceRequest{ResourceType: models.ResourceArticle}),
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, constants.ErrInvalidID
	}
	return id, nil
}

// Mount loads the group named by id, e.g. the ":id" of /groups/:id.
func (v *GroupDetail) Mount(ctx context.Context, id string) error {
	sess, err := v.guard.Enter(ctx)
	if err != nil {
		return err
	}
	v.user.set(sess.User)
	return v.guard.Observe(ctx, v.fetch.Mount(ctx, fetcher.Params{PathParam: id}))
}

// SetID switches to another group. Nothing is fetched when id is the
// current one.
func (v *GroupDetail) SetID(ctx context.Context, id string) error {
	return v.guard.Observe(ctx, v.fetch.SetParams(ctx, fetcher.Params{PathParam: id}))
}

func (v *GroupDetail) Refresh(ctx context.Context) error {
	return v.guard.Observe(ctx, v.fetch.Refresh(ctx))
}

func (v *GroupDetail) Unmount() {
	v.fetch.Unmount()
}

func (v *GroupDetail) ShareForm() *mutation.Form[models.ShareResourceRequest] {
	return v.share
}

// ShareResource submits the share form. A returned resource is appended
// to the loaded group; otherwise the group is fetched again.
func (v *GroupDetail) ShareResource(ctx context.Context) error {
	id, err := v.currentID()
	if err != nil {
		return err
	}

	err = v.share.Submit(ctx, func(ctx context.Context, p models.ShareResourceRequest) error {
		res, err := v.api.ShareResource(ctx, id, p)
		if err != nil {
			v.fail(err, "Share resource")
			return err
		}
		appended := false
		if res != nil {
			err := v.store.Update(func(s *state.Snapshot[models.Group]) bool {
				// Only a loaded group of the same id takes the resource.
				if !s.HasData || s.Data.ID != id {
					return false
				}
				s.Data.Resources = state.Insert(s.Data.Resources, *res, state.Append)
				s.ErrorMessage = ""
				appended = true
				return true
			})
			if err != nil {
				return err
			}
		}
		if !appended {
			if err := v.fetch.Refresh(ctx); err != nil {
				v.log.Warn("refetch after share failed", "group", id, "error", err.Error())
			}
		}
		return nil
	})
	return v.guard.Observe(ctx, err)
}

// Leave removes the user from the group and returns to the group list.
// On failure the view stays and shows the error.
func (v *GroupDetail) Leave(ctx context.Context) error {
	id, err := v.currentID()
	if err != nil {
		return err
	}
	if !v.leaving.CompareAndSwap(false, true) {
		return constants.ErrMutationPending
	}
	defer v.leaving.Store(false)

	if err := v.api.LeaveGroup(ctx, id); err != nil {
		v.fail(err, "Leave group")
		return v.guard.Observe(ctx, err)
	}
	v.nav.Navigate(constants.RouteGroups)
	return nil
}

// IsMember reports whether the signed-in user belongs to the group.
func (v *GroupDetail) IsMember() bool {
	return v.store.Snapshot().Data.HasMember(v.user.get().ID)
}

func (v *GroupDetail) Screen() Screen[models.Group] {
	return screenOf(v.store.Snapshot())
}

func (v *GroupDetail) currentID() (int, error) {
	return parseID(v.fetch.Params().PathParam)
}

func (v *GroupDetail) fail(err error, op string) {
	msg := connection.Message(err, op)
	_ = v.store.Update(func(s *state.Snapshot[models.Group]) bool {
		s.ErrorMessage = msg
		return true
	})
}
