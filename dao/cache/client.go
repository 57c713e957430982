package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 在线状态过期时间，连接存活期间由心跳续期
const onlineExpireAt = 10 * time.Minute

// ClientStorage 记录用户在各节点上的 websocket 连接数
type ClientStorage struct {
	redis *redis.Client
}

func NewClientStorage(redis *redis.Client) *ClientStorage {
	return &ClientStorage{redis: redis}
}

// Bind 连接建立
// @params sid 服务节点ID
// @params uid 用户ID
func (c *ClientStorage) Bind(ctx context.Context, sid string, uid uint64) error {
	_, err := c.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, c.userLocationKey(uid), sid, 1)
		pipe.Expire(ctx, c.userLocationKey(uid), onlineExpireAt)
		return nil
	})
	return err
}

// Touch 心跳续期
func (c *ClientStorage) Touch(ctx context.Context, uid uint64) error {
	return c.redis.Expire(ctx, c.userLocationKey(uid), onlineExpireAt).Err()
}

// UnBind 连接断开，节点计数归零时删除该字段
func (c *ClientStorage) UnBind(ctx context.Context, sid string, uid uint64) error {
	count, err := c.redis.HIncrBy(ctx, c.userLocationKey(uid), sid, -1).Result()
	if err != nil {
		return err
	}
	if count <= 0 {
		return c.redis.HDel(ctx, c.userLocationKey(uid), sid).Err()
	}
	return nil
}

// IsOnline 判断用户是否在线[所有部署机器]
func (c *ClientStorage) IsOnline(ctx context.Context, uid uint64) bool {
	val, err := c.redis.HLen(ctx, c.userLocationKey(uid)).Result()
	return err == nil && val > 0
}

func (c *ClientStorage) userLocationKey(uid uint64) string {
	return fmt.Sprintf("ws:user:location:%d", uid)
}
