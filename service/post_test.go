package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"Bingo/pkg/bizerr"
	"Bingo/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_CreateValidates(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")

	_, err := env.Posts.CreatePost(ctx, bob.ID, "   ", nil)
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	_, err = env.Posts.CreatePost(ctx, bob.ID, "", testutil.Ptr(" "))
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))

	p, err := env.Posts.CreatePost(ctx, bob.ID, "", testutil.Ptr("https://cdn.test/x.png"))
	require.NoError(t, err)
	assert.Equal(t, "bob", p.AuthorName)
	assert.EqualValues(t, 1, env.Reload(t, bob.ID).PostCount)

	_, err = env.Posts.CreatePost(ctx, 12345, "ghost", nil)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
}

func TestPost_DeleteOnlyByAuthor(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")

	p, err := env.Posts.CreatePost(ctx, bob.ID, "mine", nil)
	require.NoError(t, err)
	_, err = env.Comments.AddComment(ctx, p.ID, alice.ID, "hey")
	require.NoError(t, err)
	_, err = env.Likes.ToggleLike(ctx, alice.ID, p.ID)
	require.NoError(t, err)

	err = env.Posts.DeletePost(ctx, alice.ID, p.ID)
	assert.True(t, bizerr.Is(err, bizerr.KindPermissionDenied))

	require.NoError(t, env.Posts.DeletePost(ctx, bob.ID, p.ID))
	assert.Zero(t, env.Reload(t, bob.ID).PostCount)
	_, err = env.Posts.GetPost(ctx, alice.ID, p.ID)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
	exist, err := env.CommentDAO.IsExist(ctx, "post_id = ?", p.ID)
	require.NoError(t, err)
	assert.False(t, exist)

	err = env.Posts.DeletePost(ctx, bob.ID, p.ID)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
}

func TestPost_HiddenWhileAuthorDeactivated(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")

	p, err := env.Posts.CreatePost(ctx, bob.ID, "mine", nil)
	require.NoError(t, err)
	require.NoError(t, env.Profiles.Deactivate(ctx, bob.ID))

	_, err = env.Posts.GetPost(ctx, alice.ID, p.ID)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
	_, err = env.Posts.ListByAuthor(ctx, alice.ID, bob.ID, 10)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))

	require.NoError(t, env.Profiles.Reactivate(ctx, bob.ID))
	posts, err := env.Posts.ListByAuthor(ctx, alice.ID, bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].IsLikedByUser)
}

func TestComment_AddAndList(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")

	p, err := env.Posts.CreatePost(ctx, bob.ID, "post", nil)
	require.NoError(t, err)

	_, err = env.Comments.AddComment(ctx, p.ID, alice.ID, "  ")
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	_, err = env.Comments.AddComment(ctx, p.ID, alice.ID, strings.Repeat("长", 1001))
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	_, err = env.Comments.AddComment(ctx, 999, alice.ID, "nope")
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))

	for _, body := range []string{"one", "two", "three"} {
		_, err = env.Comments.AddComment(ctx, p.ID, alice.ID, body)
		require.NoError(t, err)
		env.Clock.Add(time.Second)
	}
	got, err := env.PostDAO.FindById(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.CommentCount)

	page, err := env.Comments.ListComments(ctx, p.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "two", page[0].Content)
	assert.Equal(t, "three", page[1].Content)

	long := strings.Repeat("字", 80)
	_, err = env.Comments.AddComment(ctx, p.ID, alice.ID, long)
	require.NoError(t, err)
	list, err := env.Notifications.List(ctx, bob.ID, 0, 1)
	require.NoError(t, err)
	preview, _ := list.Notifications[0].Extra["preview"].(string)
	assert.Equal(t, strings.Repeat("字", 50)+"…", preview)

	_, err = env.Comments.ListComments(ctx, 999, 0, 10)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
}

func TestPost_ListByAuthor(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")

	first, err := env.Posts.CreatePost(ctx, bob.ID, "one", nil)
	require.NoError(t, err)
	env.Advance(time.Minute)
	second, err := env.Posts.CreatePost(ctx, bob.ID, "two", nil)
	require.NoError(t, err)
	_, err = env.Posts.CreatePost(ctx, alice.ID, "not bob", nil)
	require.NoError(t, err)
	_, err = env.Likes.ToggleLike(ctx, alice.ID, first.ID)
	require.NoError(t, err)

	posts, err := env.Posts.ListByAuthor(ctx, alice.ID, bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.False(t, posts[0].IsLikedByUser)
	assert.Equal(t, first.ID, posts[1].ID)
	assert.True(t, posts[1].IsLikedByUser)

	_, err = env.Posts.ListByAuthor(ctx, alice.ID, 98765, 10)
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
}
