package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuthStorage 邮箱验证码、重置密码令牌、会话吊销标记
type AuthStorage struct {
	redis *redis.Client
}

func NewAuthStorage(rds *redis.Client) *AuthStorage {
	return &AuthStorage{rds}
}

// SetVerifyCode 覆盖旧验证码
func (a *AuthStorage) SetVerifyCode(ctx context.Context, email, code string, ttl time.Duration) error {
	return a.redis.Set(ctx, a.verifyKey(email), code, ttl).Err()
}

// CheckVerifyCode 校验成功后删除验证码
func (a *AuthStorage) CheckVerifyCode(ctx context.Context, email, code string) (bool, error) {
	val, err := a.redis.Get(ctx, a.verifyKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	return true, a.redis.Del(ctx, a.verifyKey(email)).Err()
}

func (a *AuthStorage) SetResetToken(ctx context.Context, token string, accountID uint64, ttl time.Duration) error {
	return a.redis.Set(ctx, a.resetKey(token), accountID, ttl).Err()
}

// ConsumeResetToken 令牌只能使用一次
func (a *AuthStorage) ConsumeResetToken(ctx context.Context, token string) (uint64, bool, error) {
	val, err := a.redis.GetDel(ctx, a.resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Revoke 账号删除后，此前签发的所有令牌失效
func (a *AuthStorage) Revoke(ctx context.Context, uid uint64, at time.Time, ttl time.Duration) error {
	return a.redis.Set(ctx, a.revokedKey(uid), at.Unix(), ttl).Err()
}

// IsRevoked issuedAt 不晚于吊销时间的令牌视为失效
func (a *AuthStorage) IsRevoked(ctx context.Context, uid uint64, issuedAt time.Time) (bool, error) {
	at, err := a.redis.Get(ctx, a.revokedKey(uid)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return issuedAt.Unix() <= at, nil
}

func (a *AuthStorage) verifyKey(email string) string {
	return fmt.Sprintf("auth:verify:%s", email)
}

func (a *AuthStorage) resetKey(token string) string {
	return fmt.Sprintf("auth:reset:%s", token)
}

func (a *AuthStorage) revokedKey(uid uint64) string {
	return fmt.Sprintf("auth:revoked:%d", uid)
}
