package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"Bingo/pkg/bizerr"
	"Bingo/pkg/mq"
	"Bingo/pkg/testutil"
	"Bingo/service"
	"Bingo/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidUsername(t *testing.T) {
	cases := map[string]bool{
		"ab":        false,
		"abc":       true,
		"valid_01":  true,
		"a.b-c":     true,
		"has space": false,
		"名字":        false,
		"":          false,
	}
	for name, want := range cases {
		assert.Equal(t, want, service.ValidUsername(name), name)
	}
}

func TestProfile_AvailabilityShortCircuits(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	var err error
	n := testutil.CountQueries(t, env.DB, func() {
		_, err = env.Profiles.CheckUsernameAvailability(ctx, "ab", 0)
	})
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	assert.Zero(t, n)

	ok, err := env.Profiles.CheckUsernameAvailability(ctx, "valid_01", 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProfile_AvailabilityExcludesSelf(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	alice := env.NewUser(t, "alice")

	ok, err := env.Profiles.CheckUsernameAvailability(ctx, "bob", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.Profiles.CheckUsernameAvailability(ctx, "bob", bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.Profiles.CheckUsernameAvailability(ctx, "bob", alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfile_UpdateProfile(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	env.NewUser(t, "alice")

	u, err := env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{
		Bio:             testutil.Ptr("hello"),
		ProfileImageURL: testutil.Ptr("https://cdn.test/bob.png"),
	})
	require.NoError(t, err)
	require.NotNil(t, u.Bio)
	assert.Equal(t, "hello", *u.Bio)
	assert.Equal(t, "bob", u.Username)

	// 显式清空
	u, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{ClearBio: true})
	require.NoError(t, err)
	assert.Nil(t, u.Bio)
	require.NotNil(t, u.ProfileImageURL)

	_, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{Username: testutil.Ptr("alice")})
	assert.True(t, bizerr.Is(err, bizerr.KindConflict))

	_, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{FullName: testutil.Ptr("  ")})
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))

	_, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{Username: testutil.Ptr("x")})
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))

	// 保持原用户名不算冲突
	u, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{Username: testutil.Ptr("bob")})
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	_, err = env.Profiles.UpdateProfile(ctx, 42, &types.ProfilePatch{Bio: testutil.Ptr("x")})
	assert.True(t, bizerr.Is(err, bizerr.KindNotFound))
}

func TestProfile_ReauthorAfterRename(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	alice := env.NewUser(t, "alice")

	p, err := env.Posts.CreatePost(ctx, bob.ID, "first", nil)
	require.NoError(t, err)
	c, err := env.Comments.AddComment(ctx, p.ID, bob.ID, "self reply")
	require.NoError(t, err)
	st, err := env.Stories.CreateStory(ctx, bob.ID, testutil.Ptr("s.jpg"), nil)
	require.NoError(t, err)
	other, err := env.Posts.CreatePost(ctx, alice.ID, "untouched", nil)
	require.NoError(t, err)

	_, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{
		FullName:        testutil.Ptr("Bobby"),
		ProfileImageURL: testutil.Ptr("https://cdn.test/new.png"),
	})
	require.NoError(t, err)
	env.Bus.Flush()

	gotPost, err := env.PostDAO.FindById(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", gotPost.AuthorName)
	require.NotNil(t, gotPost.AuthorProfileImage)
	assert.Equal(t, "https://cdn.test/new.png", *gotPost.AuthorProfileImage)

	gotComment, err := env.CommentDAO.FindById(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", gotComment.AuthorName)

	gotStory, err := env.StoryDAO.FindById(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", gotStory.AuthorName)

	gotOther, err := env.PostDAO.FindById(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", gotOther.AuthorName)
}

func TestProfile_ReauthorIgnoresStaleEvent(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	p, err := env.Posts.CreatePost(ctx, bob.ID, "hi", nil)
	require.NoError(t, err)

	_, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{FullName: testutil.Ptr("Bob A")})
	require.NoError(t, err)
	_, err = env.Profiles.UpdateProfile(ctx, bob.ID, &types.ProfilePatch{FullName: testutil.Ptr("Bob B")})
	require.NoError(t, err)
	env.Bus.Flush()

	// 较早的事件晚到
	stale, err := json.Marshal(mq.ProfileUpdated{UserID: bob.ID, Name: "Bob A"})
	require.NoError(t, err)
	require.NoError(t, env.Subscriber.Handle(ctx, stale))

	got, err := env.PostDAO.FindById(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob B", got.AuthorName)
}

func TestProfile_ReauthorSkipsErasedUser(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	body, err := json.Marshal(mq.ProfileUpdated{UserID: 777, Name: "ghost"})
	require.NoError(t, err)
	assert.NoError(t, env.Subscriber.Handle(ctx, body))
	assert.Error(t, env.Subscriber.Handle(ctx, []byte("{")))
}

func TestProfile_DeactivateIsIdempotent(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")

	require.NoError(t, env.Profiles.Deactivate(ctx, bob.ID))
	deactivated := env.Reload(t, bob.ID)
	first := deactivated.DeactivatedAt
	require.NotNil(t, first)
	assert.WithinDuration(t, env.Clock.Now(), deactivated.UpdatedAt, time.Second)

	env.Clock.Add(48 * time.Hour)
	require.NoError(t, env.Profiles.Deactivate(ctx, bob.ID))
	again := env.Reload(t, bob.ID)
	assert.True(t, again.IsDeactivated)
	assert.True(t, first.Equal(*again.DeactivatedAt))

	require.NoError(t, env.Profiles.Reactivate(ctx, bob.ID))
	back := env.Reload(t, bob.ID)
	assert.False(t, back.IsDeactivated)
	assert.Nil(t, back.DeactivatedAt)
	assert.WithinDuration(t, env.Clock.Now(), back.UpdatedAt, time.Second)
}

func TestProfile_Search(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	env.NewUser(t, "bob")
	env.NewUser(t, "bobby")
	carol := env.NewUser(t, "bobcat")
	env.NewUser(t, "alice")
	require.NoError(t, env.Profiles.Deactivate(ctx, carol.ID))

	users, err := env.Profiles.Search(ctx, "bob", 10)
	require.NoError(t, err)
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	assert.ElementsMatch(t, []string{"bob", "bobby"}, names)

	users, err = env.Profiles.Search(ctx, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, users)
}
