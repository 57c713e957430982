package dao_test

import (
	"context"
	"testing"

	"Bingo/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFollowDAO_FollowIsIdempotent(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.NewUser(t, "alice")
	b := env.NewUser(t, "bob")

	created, err := env.FollowDAO.Follow(ctx, a.ID, b.ID, env.Clock.Now())
	require.NoError(t, err)
	assert.True(t, created)
	created, err = env.FollowDAO.Follow(ctx, a.ID, b.ID, env.Clock.Now())
	require.NoError(t, err)
	assert.False(t, created)

	ok, err := env.FollowDAO.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 1, env.Reload(t, a.ID).FollowingCount)
	assert.EqualValues(t, 1, env.Reload(t, b.ID).FollowerCount)

	removed, err := env.FollowDAO.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = env.FollowDAO.Unfollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.EqualValues(t, 0, env.Reload(t, a.ID).FollowingCount)
	assert.EqualValues(t, 0, env.Reload(t, b.ID).FollowerCount)
}

func TestUserFollowDAO_DeleteAllForUserFixesCounterparts(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	a := env.NewUser(t, "alice")
	b := env.NewUser(t, "bob")
	c := env.NewUser(t, "carol")

	for _, edge := range [][2]uint64{{a.ID, b.ID}, {b.ID, c.ID}, {c.ID, b.ID}} {
		_, err := env.FollowDAO.Follow(ctx, edge[0], edge[1], env.Clock.Now())
		require.NoError(t, err)
	}

	require.NoError(t, env.FollowDAO.DeleteAllForUser(ctx, b.ID))

	assert.EqualValues(t, 0, env.Reload(t, a.ID).FollowingCount)
	assert.EqualValues(t, 0, env.Reload(t, c.ID).FollowingCount)
	assert.EqualValues(t, 0, env.Reload(t, c.ID).FollowerCount)

	ids, err := env.FollowDAO.ListFolloweeIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
