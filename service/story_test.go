package service_test

import (
	"context"
	"testing"
	"time"

	"Bingo/pkg/bizerr"
	"Bingo/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStory_VisibleFor24Hours(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	alice := env.NewUser(t, "alice")

	st, err := env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("https://cdn.test/s.jpg"), nil)
	require.NoError(t, err)

	env.Clock.Add(23*time.Hour + 59*time.Minute)
	groups, err := env.Stories.ActiveStories(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Stories, 1)
	assert.Equal(t, st.ID, groups[0].Stories[0].ID)

	env.Clock.Add(2 * time.Minute)
	groups, err = env.Stories.ActiveStories(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	err = env.Stories.ViewStory(ctx, alice.ID, st.ID)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
}

func TestStory_ExactlyOneMedia(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")

	_, err := env.Stories.CreateStory(ctx, bob.ID, nil, nil)
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	_, err = env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("a.jpg"), testutil.Ptr("b.mp4"))
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	_, err = env.Stories.CreateStory(ctx, bob.ID, nil, testutil.Ptr("b.mp4"))
	assert.NoError(t, err)
}

func TestStory_GroupsAndViews(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")
	carol := env.NewUser(t, "carol")

	b1, err := env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("b1.jpg"), nil)
	require.NoError(t, err)
	env.Clock.Add(time.Minute)
	_, err = env.Stories.CreateStory(ctx, carol.ID, testutil.Ptr("c1.jpg"), nil)
	require.NoError(t, err)
	env.Clock.Add(time.Minute)
	b2, err := env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("b2.jpg"), nil)
	require.NoError(t, err)

	groups, err := env.Stories.ActiveStories(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, bob.ID, groups[0].AuthorID)
	assert.Equal(t, carol.ID, groups[1].AuthorID)
	require.Len(t, groups[0].Stories, 2)
	assert.Equal(t, b2.ID, groups[0].Stories[0].ID)
	assert.True(t, groups[0].HasUnviewed)

	// 重复浏览只记一次
	for _, id := range []uint64{b1.ID, b2.ID, b2.ID} {
		require.NoError(t, env.Stories.ViewStory(ctx, alice.ID, id))
	}
	groups, err = env.Stories.ActiveStories(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, groups[0].HasUnviewed)
	assert.Equal(t, []uint64{alice.ID}, groups[0].Stories[0].ViewerIDs)

	require.NoError(t, env.Profiles.Deactivate(ctx, carol.ID))
	groups, err = env.Stories.ActiveStories(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, bob.ID, groups[0].AuthorID)
}

func TestStory_DeleteExpired(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	alice := env.NewUser(t, "alice")

	old, err := env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("old.jpg"), nil)
	require.NoError(t, err)
	require.NoError(t, env.Stories.ViewStory(ctx, alice.ID, old.ID))
	env.Clock.Add(12 * time.Hour)
	fresh, err := env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("fresh.jpg"), nil)
	require.NoError(t, err)
	env.Clock.Add(12 * time.Hour)

	n, err := env.Stories.DeleteExpired(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	exist, err := env.StoryDAO.IsExist(ctx, "id = ?", old.ID)
	require.NoError(t, err)
	assert.False(t, exist)
	exist, err = env.StoryDAO.IsExist(ctx, "id = ?", fresh.ID)
	require.NoError(t, err)
	assert.True(t, exist)

	// 再次执行没有可删除的
	n, err = env.Stories.DeleteExpired(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
