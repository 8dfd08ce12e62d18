package mock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnconnect/learnconnect.go/internal/mock"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/views"
)

var _ views.API = (*mock.API)(nil)

func TestJoinIsIdempotent(t *testing.T) {
	api := mock.Create().Seed(1)
	ctx := context.Background()
	groups, err := api.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	for i := 0; i < 2; i++ {
		g, err := api.JoinGroup(ctx, groups[0].ID)
		require.NoError(t, err)
		assert.Len(t, g.Members, 1)
	}
}

func TestDoubtsNewestFirst(t *testing.T) {
	api := mock.Create()
	ctx := context.Background()
	first, err := api.CreateDoubt(ctx, models.CreateDoubtRequest{Topic: "Go", Title: "a", Description: "x"})
	require.NoError(t, err)
	second, err := api.CreateDoubt(ctx, models.CreateDoubtRequest{Topic: "Python", Title: "b", Description: "y"})
	require.NoError(t, err)

	all, err := api.ListDoubts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []int{second.ID, first.ID}, []int{all[0].ID, all[1].ID})

	goOnly, err := api.ListDoubts(ctx, "Go")
	require.NoError(t, err)
	assert.Len(t, goOnly, 1)

	require.NoError(t, api.DeleteDoubt(ctx, first.ID))
	require.Error(t, api.DeleteDoubt(ctx, first.ID))
}
