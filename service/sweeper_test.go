package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"Bingo/pkg/bizerr"
	"Bingo/pkg/testutil"
	"Bingo/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func TestSweeper_ErasesAfterThirtyOneDays(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")

	require.NoError(t, env.Follows.Follow(ctx, alice.ID, bob.ID))
	p1, err := env.Posts.CreatePost(ctx, bob.ID, "p1", nil)
	require.NoError(t, err)
	_, err = env.Likes.ToggleLike(ctx, alice.ID, p1.ID)
	require.NoError(t, err)
	_, err = env.Comments.AddComment(ctx, p1.ID, alice.ID, "nice")
	require.NoError(t, err)
	mine, err := env.Posts.CreatePost(ctx, alice.ID, "mine", nil)
	require.NoError(t, err)
	_, err = env.Likes.ToggleLike(ctx, bob.ID, mine.ID)
	require.NoError(t, err)

	require.NoError(t, env.Profiles.Deactivate(ctx, bob.ID))
	feed, err := env.Feed.HomeFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, mine.ID, feed[0].ID)

	// 30 天 23 小时，整天数为 30，未过期
	env.Clock.Add(30*day + 23*time.Hour)
	res, err := env.Sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.AccountsErased)
	require.NotNil(t, env.Reload(t, bob.ID))

	env.Clock.Add(time.Hour)
	res, err = env.Sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.AccountsErased)
	assert.Zero(t, res.AccountsFailed)

	assert.Nil(t, env.Reload(t, bob.ID))
	exist, err := env.PostDAO.IsExist(ctx, "id = ?", p1.ID)
	require.NoError(t, err)
	assert.False(t, exist)
	exist, err = env.LikeDAO.IsExist(ctx, "post_id = ? OR user_id = ?", p1.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exist)
	exist, err = env.CommentDAO.IsExist(ctx, "post_id = ?", p1.ID)
	require.NoError(t, err)
	assert.False(t, exist)
	exist, err = env.NotificationDAO.IsExist(ctx, "recipient_id = ? OR actor_id = ?", bob.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exist)

	a := env.Reload(t, alice.ID)
	assert.Zero(t, a.FollowingCount)
	left, err := env.PostDAO.FindById(ctx, mine.ID)
	require.NoError(t, err)
	assert.Zero(t, left.LikeCount)

	// 已删除的账号不会再次处理
	res, err = env.Sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.AccountsErased)
}

func TestSweeper_DeletesExpiredStories(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")

	_, err := env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("a.jpg"), nil)
	require.NoError(t, err)
	_, err = env.Stories.CreateStory(ctx, bob.ID, nil, testutil.Ptr("b.mp4"))
	require.NoError(t, err)

	env.Clock.Add(day)
	res, err := env.Sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.StoriesDeleted)
	assert.Zero(t, res.AccountsErased)
}

func TestSweeper_StartStopsOnCancel(t *testing.T) {
	env := testutil.NewEnv(t)
	bob := env.NewUser(t, "bob")
	_, err := env.Stories.CreateStory(context.Background(), bob.ID, testutil.Ptr("a.jpg"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.Sweeper.Start(ctx) }()

	// 等待 ticker 注册后推进时钟
	require.Eventually(t, func() bool {
		env.Clock.Add(env.Config.Sweeper.Interval)
		exist, err := env.StoryDAO.IsExist(context.Background(), "author_id = ?", bob.ID)
		return err == nil && !exist
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestLogin_ErasesExpiredDeactivation(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	u := signupAndVerify(t, env, "bob")

	require.NoError(t, env.Profiles.Deactivate(ctx, u.ID))
	env.Clock.Add(31 * day)

	_, err := env.Auth.Login(ctx, "bob@example.com", "secret1")
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
	assert.Nil(t, env.Reload(t, u.ID))

	_, err = env.Auth.Login(ctx, "bob@example.com", "secret1")
	assert.True(t, bizerr.Is(err, bizerr.KindUnauthenticated))
}

func TestDeactivationExpired(t *testing.T) {
	at := testutil.Epoch
	assert.False(t, service.DeactivationExpired(at, at.Add(30*day)))
	assert.False(t, service.DeactivationExpired(at, at.Add(31*day-time.Second)))
	assert.True(t, service.DeactivationExpired(at, at.Add(31*day)))
	assert.True(t, service.DeactivationCutoff(at.Add(31*day)).Equal(at))
}

type lockedStories struct {
	service.IStoryService
}

func (lockedStories) DeleteExpired(context.Context, int) (int64, error) {
	return 0, bizerr.Unavailable(errors.New("story table locked"))
}

func TestSweeper_StoryFailureDoesNotStopAccounts(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	require.NoError(t, env.Profiles.Deactivate(ctx, bob.ID))
	env.Clock.Add(32 * day)

	sweeper := *env.Sweeper
	sweeper.Stories = lockedStories{env.Stories}
	res, err := sweeper.RunOnce(ctx)
	assert.True(t, bizerr.Is(err, bizerr.KindUnavailable))
	assert.EqualValues(t, 1, res.AccountsErased)
	assert.Zero(t, res.AccountsFailed)
	assert.Nil(t, env.Reload(t, bob.ID))
}
