package cache_test

import (
	"context"
	"testing"
	"time"

	"Bingo/dao/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })
	return mr, rds
}

func TestUnreadStorage(t *testing.T) {
	_, rds := newRedis(t)
	s := cache.NewUnreadStorage(rds)
	ctx := context.Background()

	// 未回源前自增不创建 key
	require.NoError(t, s.Incr(ctx, 7))
	_, ok, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, 7, 2))
	require.NoError(t, s.Incr(ctx, 7))
	v, ok, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 3, v)

	require.NoError(t, s.Set(ctx, 7, 0))
	require.NoError(t, s.Decr(ctx, 7))
	_, ok, err = s.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthStorage_VerifyCodeAndResetToken(t *testing.T) {
	mr, rds := newRedis(t)
	s := cache.NewAuthStorage(rds)
	ctx := context.Background()

	require.NoError(t, s.SetVerifyCode(ctx, "a@example.com", "123456", time.Hour))
	ok, err := s.CheckVerifyCode(ctx, "a@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.CheckVerifyCode(ctx, "a@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.CheckVerifyCode(ctx, "a@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetResetToken(ctx, "tok", 42, time.Minute))
	id, ok, err := s.ConsumeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)
	_, ok, err = s.ConsumeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetResetToken(ctx, "late", 42, time.Minute))
	mr.FastForward(2 * time.Minute)
	_, ok, err = s.ConsumeResetToken(ctx, "late")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthStorage_Revoke(t *testing.T) {
	_, rds := newRedis(t)
	s := cache.NewAuthStorage(rds)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	revoked, err := s.IsRevoked(ctx, 1, at)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, 1, at, time.Hour))
	revoked, err = s.IsRevoked(ctx, 1, at.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = s.IsRevoked(ctx, 1, at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestClientStorage_Presence(t *testing.T) {
	_, rds := newRedis(t)
	s := cache.NewClientStorage(rds)
	ctx := context.Background()

	assert.False(t, s.IsOnline(ctx, 9))
	require.NoError(t, s.Bind(ctx, "node-a", 9))
	assert.True(t, s.IsOnline(ctx, 9))
	require.NoError(t, s.UnBind(ctx, "node-a", 9))
	assert.False(t, s.IsOnline(ctx, 9))
}
