package client

import (
	"Bingo/config"
	"Bingo/pkg/log"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

// NewRedisClient 启动时 ping 一次，连不上直接返回错误
func NewRedisClient(conf *config.Config) (*redis.Client, error) {
	addr := conf.Redis.Addr()
	rds := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: conf.Redis.Username,
		Password: conf.Redis.Password,
		DB:       conf.Redis.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rds.Ping(ctx).Err(); err != nil {
		_ = rds.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	log.L.Info("redis connected", zap.String("addr", addr), zap.Int("db", conf.Redis.Database))
	return rds, nil
}
