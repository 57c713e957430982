package dao_test

import (
	"context"
	"sync"
	"testing"

	"Bingo/models"
	"Bingo/pkg/snowflake"
	"Bingo/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPost(t *testing.T, env *testutil.Env, author *models.Users) *models.Post {
	t.Helper()
	p := &models.Post{
		ID:         snowflake.GenID(),
		AuthorID:   author.ID,
		AuthorName: author.FullName,
		Content:    "hello",
		CreatedAt:  env.Clock.Now().UTC(),
	}
	require.NoError(t, env.PostDAO.CreateWithCount(context.Background(), p))
	return p
}

func TestPostLikeDAO_Toggle(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	alice := env.NewUser(t, "alice")
	p := newPost(t, env, bob)

	liked, changed, err := env.LikeDAO.Toggle(ctx, p.ID, alice.ID, env.Clock.Now())
	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, changed)

	got, err := env.PostDAO.FindById(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikeCount)

	liked, changed, err = env.LikeDAO.Toggle(ctx, p.ID, alice.ID, env.Clock.Now())
	require.NoError(t, err)
	assert.False(t, liked)
	assert.True(t, changed)

	got, err = env.PostDAO.FindById(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.LikeCount)
}

func TestPostLikeDAO_CountMatchesMembershipUnderConcurrency(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")
	p := newPost(t, env, bob)

	users := []*models.Users{env.NewUser(t, "u_one"), env.NewUser(t, "u_two"), env.NewUser(t, "u_three")}
	var wg sync.WaitGroup
	for i := 0; i < 7; i++ {
		for _, u := range users {
			wg.Add(1)
			go func(uid uint64) {
				defer wg.Done()
				_, _, err := env.LikeDAO.Toggle(ctx, p.ID, uid, env.Clock.Now())
				assert.NoError(t, err)
			}(u.ID)
		}
	}
	wg.Wait()

	members, err := env.LikeDAO.CountByPost(ctx, p.ID)
	require.NoError(t, err)
	got, err := env.PostDAO.FindById(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, members, got.LikeCount)
	// 每人切换 7 次，最终都是已点赞
	assert.EqualValues(t, 3, members)
}

func TestPostDAO_DeleteAllForUserCascades(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")
	alicePost := newPost(t, env, alice)
	bobPost := newPost(t, env, bob)

	_, _, err := env.LikeDAO.Toggle(ctx, alicePost.ID, alice.ID, env.Clock.Now())
	require.NoError(t, err)
	_, _, err = env.LikeDAO.Toggle(ctx, bobPost.ID, alice.ID, env.Clock.Now())
	require.NoError(t, err)
	_, _, err = env.LikeDAO.Toggle(ctx, alicePost.ID, bob.ID, env.Clock.Now())
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		require.NoError(t, env.CommentDAO.CreateWithCount(ctx, &models.Comment{
			ID: snowflake.GenID(), PostID: bobPost.ID, AuthorID: alice.ID, Content: "hi", CreatedAt: env.Clock.Now().UTC(),
		}))
	}
	require.NoError(t, env.CommentDAO.CreateWithCount(ctx, &models.Comment{
		ID: snowflake.GenID(), PostID: bobPost.ID, AuthorID: bob.ID, Content: "thanks", CreatedAt: env.Clock.Now().UTC(),
	}))

	require.NoError(t, env.PostDAO.DeleteAllForUser(ctx, alice.ID))

	exist, err := env.PostDAO.IsExist(ctx, "id = ?", alicePost.ID)
	require.NoError(t, err)
	assert.False(t, exist)

	got, err := env.PostDAO.FindById(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.LikeCount)
	assert.EqualValues(t, 1, got.CommentCount)

	comments, err := env.CommentDAO.ListByPost(ctx, bobPost.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, bob.ID, comments[0].AuthorID)

	// bob 在 alice 帖子上的点赞随帖子一起删除
	liked, err := env.LikeDAO.IsLiked(ctx, alicePost.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}
