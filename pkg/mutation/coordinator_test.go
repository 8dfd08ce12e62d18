package mutation

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

func loadedStore(t *testing.T, doubts ...models.Doubt) *state.Store[[]models.Doubt] {
	t.Helper()
	s := state.NewStore[[]models.Doubt]()
	require.NoError(t, s.Update(func(snap *state.Snapshot[[]models.Doubt]) bool {
		snap.Phase = state.PhaseLoading
		return true
	}))
	require.NoError(t, s.Update(func(snap *state.Snapshot[[]models.Doubt]) bool {
		snap.Phase = state.PhaseSuccess
		snap.Data = doubts
		snap.HasData = true
		return true
	}))
	return s
}

func TestCreatePrependsExactlyOnce(t *testing.T) {
	s := loadedStore(t, models.Doubt{ID: 1, Title: "old"})
	c := New(s)

	created := models.Doubt{ID: 2, Topic: "React", Title: "Why hooks?"}
	require.NoError(t, c.Create(context.Background(), state.Prepend, func(context.Context) (models.Doubt, error) {
		return created, nil
	}))
	assert.Equal(t, []models.Doubt{created, {ID: 1, Title: "old"}}, s.Snapshot().Data)

	// A refetch that already brought the item in must not produce a duplicate.
	require.NoError(t, c.Create(context.Background(), state.Prepend, func(context.Context) (models.Doubt, error) {
		return created, nil
	}))
	assert.Len(t, s.Snapshot().Data, 2)
}

func TestCreateAppends(t *testing.T) {
	s := loadedStore(t, models.Doubt{ID: 1})
	c := New(s)

	require.NoError(t, c.Create(context.Background(), state.Append, func(context.Context) (models.Doubt, error) {
		return models.Doubt{ID: 9}, nil
	}))
	assert.Equal(t, 9, s.Snapshot().Data[1].ID)
}

func TestFailedMutationsLeaveItemsUntouched(t *testing.T) {
	before := []models.Doubt{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}
	rejection := &connection.APIError{Op: "Delete doubt", StatusCode: http.StatusNotFound, Detail: "Doubt not found"}

	testCases := []struct {
		name string
		run  func(*Coordinator[models.Doubt]) error
	}{
		{
			name: "create",
			run: func(c *Coordinator[models.Doubt]) error {
				return c.Create(context.Background(), state.Prepend, func(context.Context) (models.Doubt, error) {
					return models.Doubt{}, rejection
				})
			},
		},
		{
			name: "replace",
			run: func(c *Coordinator[models.Doubt]) error {
				return c.Replace(context.Background(), 2, func(context.Context) (models.Doubt, error) {
					return models.Doubt{}, rejection
				})
			},
		},
		{
			name: "remove",
			run: func(c *Coordinator[models.Doubt]) error {
				return c.Remove(context.Background(), 2, func(context.Context) error { return rejection })
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := loadedStore(t, before...)
			c := New(s)

			err := tc.run(c)
			require.ErrorIs(t, err, rejection)

			snap := s.Snapshot()
			assert.Equal(t, before, snap.Data)
			assert.Equal(t, state.PhaseSuccess, snap.Phase)
			assert.Equal(t, "Doubt not found", snap.ErrorMessage)
			assert.False(t, c.Pending())
		})
	}
}

func TestRemoveDropsOnlyItsID(t *testing.T) {
	s := loadedStore(t, models.Doubt{ID: 1}, models.Doubt{ID: 2}, models.Doubt{ID: 3})
	c := New(s)

	require.NoError(t, c.Remove(context.Background(), 2, func(context.Context) error { return nil }))
	assert.Equal(t, []models.Doubt{{ID: 1}, {ID: 3}}, s.Snapshot().Data)
}

func TestReplaceSwapsServerRepresentation(t *testing.T) {
	s := loadedStore(t, models.Doubt{ID: 1, Title: "a"}, models.Doubt{ID: 2, Title: "b"})
	c := New(s)

	require.NoError(t, c.Replace(context.Background(), 2, func(context.Context) (models.Doubt, error) {
		return models.Doubt{ID: 2, Title: "b2"}, nil
	}))
	assert.Equal(t, "b2", s.Snapshot().Data[1].Title)
}

func TestPendingMutationRejectsOthers(t *testing.T) {
	s := loadedStore(t)
	c := New(s)

	release := make(chan struct{})
	entered := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Do(context.Background(), func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	assert.True(t, c.Pending())
	calls := 0
	err := c.Remove(context.Background(), 1, func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, constants.ErrMutationPending)
	assert.Zero(t, calls)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Pending())
}

func TestSuccessClearsPreviousMutationError(t *testing.T) {
	s := loadedStore(t, models.Doubt{ID: 1})
	c := New(s, WithOp("Delete doubt"))

	require.Error(t, c.Remove(context.Background(), 1, func(context.Context) error { return errors.New("boom") }))
	assert.Equal(t, "boom", s.Snapshot().ErrorMessage)

	require.NoError(t, c.Remove(context.Background(), 1, func(context.Context) error { return nil }))
	assert.Empty(t, s.Snapshot().ErrorMessage)
	assert.Empty(t, s.Snapshot().Data)
}

func TestClearError(t *testing.T) {
	s := loadedStore(t)
	c := New(s)
	require.Error(t, c.Do(context.Background(), func(context.Context) error {
		return &connection.APIError{Op: "Leave group", StatusCode: http.StatusBadRequest}
	}))
	assert.Equal(t, "Leave group failed", s.Snapshot().ErrorMessage)

	c.ClearError()
	assert.Empty(t, s.Snapshot().ErrorMessage)
}

func TestConfirmedItemWithoutKeyIsRejected(t *testing.T) {
	existing := []models.Doubt{{ID: 1, Title: "old"}}
	s := loadedStore(t, existing...)
	c := New(s, WithOp("Post doubt"))

	err := c.Create(context.Background(), state.Prepend, func(context.Context) (models.Doubt, error) {
		return models.Doubt{}, nil
	})
	require.ErrorIs(t, err, constants.ErrMissingID)
	assert.Equal(t, existing, s.Snapshot().Data)
	assert.Equal(t, "Post doubt failed", s.Snapshot().ErrorMessage)
	assert.False(t, c.Pending())

	err = c.Replace(context.Background(), 1, func(context.Context) (models.Doubt, error) {
		return models.Doubt{Title: "blank"}, nil
	})
	require.ErrorIs(t, err, constants.ErrMissingID)
	assert.Equal(t, existing, s.Snapshot().Data)
}
