package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_AliceFollowsBobScenario(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")

	require.NoError(t, env.Follows.Follow(ctx, alice.ID, bob.ID))
	p1, err := env.Posts.CreatePost(ctx, bob.ID, "hello", nil)
	require.NoError(t, err)

	feed, err := env.Feed.HomeFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, p1.ID, feed[0].ID)
	assert.False(t, feed[0].IsLikedByUser)

	liked, err := env.Likes.ToggleLike(ctx, alice.ID, p1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, liked.LikeCount)
	assert.True(t, liked.IsLikedByUser)

	feed, err = env.Feed.HomeFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.EqualValues(t, 1, feed[0].LikeCount)
	assert.True(t, feed[0].IsLikedByUser)

	resp, err := env.Notifications.List(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	var likes []*models.Notification
	for _, n := range resp.Notifications {
		if n.Type == models.NotificationLike {
			likes = append(likes, n)
		}
	}
	require.Len(t, likes, 1)
	assert.Equal(t, alice.ID, likes[0].ActorID)
	require.NotNil(t, likes[0].PostID)
	assert.Equal(t, p1.ID, *likes[0].PostID)
}

func TestFeed_HidesDeactivatedAndDeletedAuthors(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")
	carol := env.NewUser(t, "carol")
	require.NoError(t, env.Follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, env.Follows.Follow(ctx, alice.ID, carol.ID))

	bobPost, err := env.Posts.CreatePost(ctx, bob.ID, "from bob", nil)
	require.NoError(t, err)
	env.Clock.Add(time.Minute)
	carolPost, err := env.Posts.CreatePost(ctx, carol.ID, "from carol", nil)
	require.NoError(t, err)

	require.NoError(t, env.Profiles.Deactivate(ctx, bob.ID))
	// 资料被直接删除，帖子仍在库中
	_, err = env.UserDAO.DeleteByID(ctx, carol.ID)
	require.NoError(t, err)

	exist, err := env.PostDAO.IsExist(ctx, "id IN ?", []uint64{bobPost.ID, carolPost.ID})
	require.NoError(t, err)
	require.True(t, exist)

	feed, err := env.Feed.HomeFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)

	trending, err := env.Feed.TrendingFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, trending)

	require.NoError(t, env.Profiles.Reactivate(ctx, bob.ID))
	feed, err = env.Feed.HomeFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, bobPost.ID, feed[0].ID)
}

func TestFeed_TrendingOrder(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")
	carol := env.NewUser(t, "carol")

	older, err := env.Posts.CreatePost(ctx, bob.ID, "older", nil)
	require.NoError(t, err)
	env.Clock.Add(time.Minute)
	newer, err := env.Posts.CreatePost(ctx, bob.ID, "newer", nil)
	require.NoError(t, err)
	env.Clock.Add(time.Minute)
	popular, err := env.Posts.CreatePost(ctx, carol.ID, "popular", nil)
	require.NoError(t, err)
	_, err = env.Likes.ToggleLike(ctx, alice.ID, popular.ID)
	require.NoError(t, err)

	feed, err := env.Feed.TrendingFeed(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, popular.ID, feed[0].ID)
	assert.True(t, feed[0].IsLikedByUser)
	assert.Equal(t, newer.ID, feed[1].ID)
	assert.Equal(t, older.ID, feed[2].ID)
}

func TestFeed_LimitIsClamped(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	for i := 0; i < 5; i++ {
		_, err := env.Posts.CreatePost(ctx, alice.ID, "post", nil)
		require.NoError(t, err)
		env.Clock.Add(time.Second)
	}
	env.Config.Feed.MaxLimit = 3

	feed, err := env.Feed.HomeFeed(ctx, alice.ID, 1000)
	require.NoError(t, err)
	assert.Len(t, feed, 3)
}

func TestFeed_CancelledRequestIsUnavailable(t *testing.T) {
	env := testutil.NewEnv(t)
	alice := env.NewUser(t, "alice")
	_, err := env.Posts.CreatePost(context.Background(), alice.ID, "post", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = env.Feed.HomeFeed(ctx, alice.ID, 0)
	assert.True(t, bizerr.Is(err, bizerr.KindUnavailable))
}

func TestFeed_FailedAuthorLookupDropsOnlyThatPost(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")
	carol := env.NewUser(t, "carol")

	require.NoError(t, env.Follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, env.Follows.Follow(ctx, alice.ID, carol.ID))
	fromBob, err := env.Posts.CreatePost(ctx, bob.ID, "bob", nil)
	require.NoError(t, err)
	_, err = env.Posts.CreatePost(ctx, carol.ID, "carol", nil)
	require.NoError(t, err)
	fromAlice, err := env.Posts.CreatePost(ctx, alice.ID, "alice", nil)
	require.NoError(t, err)

	testutil.FailQueries(t, env.DB, "users", carol.ID, errors.New("users shard down"))

	feed, err := env.Feed.HomeFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	ids := make([]uint64, 0, len(feed))
	for _, p := range feed {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint64{fromBob.ID, fromAlice.ID}, ids)
}

func TestFeed_FailedLikeLookupDropsOnlyThatPost(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")

	broken, err := env.Posts.CreatePost(ctx, bob.ID, "broken", nil)
	require.NoError(t, err)
	fine, err := env.Posts.CreatePost(ctx, bob.ID, "fine", nil)
	require.NoError(t, err)
	_, err = env.Likes.ToggleLike(ctx, alice.ID, fine.ID)
	require.NoError(t, err)

	testutil.FailQueries(t, env.DB, "post_likes", broken.ID, errors.New("likes shard down"))

	feed, err := env.Feed.TrendingFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, fine.ID, feed[0].ID)
	assert.True(t, feed[0].IsLikedByUser)
}
