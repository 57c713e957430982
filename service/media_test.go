package service_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"Bingo/pkg/bizerr"
	"Bingo/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestMedia_UploadImage(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	bob := env.NewUser(t, "bob")

	resp, err := env.Media.UploadImage(ctx, bob.ID, fileHeader(t, "a.png", pngBytes(t, 4, 3)))
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Width)
	assert.Equal(t, 3, resp.Height)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.True(t, strings.HasPrefix(resp.URL, "https://cdn.test/media/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))
	assert.Equal(t, 1, env.Bucket.Len())

	_, err = env.Media.UploadImage(ctx, bob.ID, fileHeader(t, "a.txt", []byte("definitely not an image")))
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	_, err = env.Media.UploadImage(ctx, bob.ID, nil)
	assert.True(t, bizerr.Is(err, bizerr.KindInvalidArgument))
	assert.Equal(t, 1, env.Bucket.Len())

	require.NoError(t, env.Media.DeleteAllForUser(ctx, bob.ID))
	assert.Zero(t, env.Bucket.Len())
}

func TestAccount_DeleteAccount(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	alice := env.NewUser(t, "alice")
	bob := env.NewUser(t, "bob")
	_, err := env.Media.UploadImage(ctx, bob.ID, fileHeader(t, "b.png", pngBytes(t, 2, 2)))
	require.NoError(t, err)
	require.NoError(t, env.Follows.Follow(ctx, bob.ID, alice.ID))

	err = env.Accounts.DeleteAccount(ctx, alice.ID, bob.ID)
	assert.True(t, bizerr.Is(err, bizerr.KindPermissionDenied))
	require.NotNil(t, env.Reload(t, bob.ID))

	require.NoError(t, env.Accounts.DeleteAccount(ctx, bob.ID, bob.ID))
	assert.Nil(t, env.Reload(t, bob.ID))
	assert.Zero(t, env.Bucket.Len())
	assert.Zero(t, env.Reload(t, alice.ID).FollowerCount)
	exist, err := env.AccountDAO.IsExist(ctx, "id = ?", bob.ID)
	require.NoError(t, err)
	assert.False(t, exist)

	revoked, err := env.AuthStorage.IsRevoked(ctx, bob.ID, env.Clock.Now())
	require.NoError(t, err)
	assert.True(t, revoked)

	// 重复删除可重入
	require.NoError(t, env.Accounts.Erase(ctx, bob.ID))
}
