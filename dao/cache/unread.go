package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 未读通知数过期时间 - 14天，过期后回源数据库
const unreadExpireAt = 14 * 24 * time.Hour

type UnreadStorage struct {
	redis *redis.Client
}

func NewUnreadStorage(rds *redis.Client) *UnreadStorage {
	return &UnreadStorage{rds}
}

// Incr 未读数自增，key 不存在时不创建，避免和数据库不一致
// @params uid 接收人ID
func (u *UnreadStorage) Incr(ctx context.Context, uid uint64) error {
	name := u.name(uid)
	n, err := u.redis.Exists(ctx, name).Result()
	if err != nil || n == 0 {
		return err
	}
	pipe := u.redis.Pipeline()
	pipe.Incr(ctx, name)
	pipe.Expire(ctx, name, unreadExpireAt)
	_, err = pipe.Exec(ctx)
	return err
}

// Decr 未读数自减，不低于 0
func (u *UnreadStorage) Decr(ctx context.Context, uid uint64) error {
	name := u.name(uid)
	v, err := u.redis.Decr(ctx, name).Result()
	if err != nil {
		return err
	}
	if v < 0 {
		return u.redis.Del(ctx, name).Err()
	}
	return nil
}

// Get 获取未读数，ok 为 false 表示缓存未命中
// @params uid 接收人ID
func (u *UnreadStorage) Get(ctx context.Context, uid uint64) (int64, bool, error) {
	v, err := u.redis.Get(ctx, u.name(uid)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// Set 回源后写入
func (u *UnreadStorage) Set(ctx context.Context, uid uint64, count int64) error {
	return u.redis.Set(ctx, u.name(uid), count, unreadExpireAt).Err()
}

// Reset 未读数重置
// @params uid 接收人ID
func (u *UnreadStorage) Reset(ctx context.Context, uid uint64) error {
	return u.redis.Del(ctx, u.name(uid)).Err()
}

func (u *UnreadStorage) name(uid uint64) string {
	return fmt.Sprintf("notify:unread:%d", uid)
}
