package service

import (
	"Bingo/config"
	"Bingo/dao"
	"Bingo/dao/cache"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

var _ IAccountService = (*AccountService)(nil)

type IAccountService interface {
	// Erase 级联删除账号：内容、动态、关注边、通知、资料、媒体、登录账号
	Erase(ctx context.Context, userID uint64) error
	// DeleteAccount 用户主动注销
	DeleteAccount(ctx context.Context, requesterID, userID uint64) error
	// CheckExpiredDeactivation 停用超期则删除账号，返回 true 表示账号已不存在
	CheckExpiredDeactivation(ctx context.Context, userID uint64) (bool, error)
}

type AccountService struct {
	Config        *config.Config
	AccountDAO    *dao.Account
	UserDAO       *dao.Users
	Posts         IPostService
	Stories       IStoryService
	Follows       IFollowService
	Notifications INotificationService
	Media         IMediaService
	AuthStorage   *cache.AuthStorage
	Clock         clock.Clock
}

func (s *AccountService) DeleteAccount(ctx context.Context, requesterID, userID uint64) error {
	if requesterID != userID {
		return bizerr.PermissionDenied("只能注销自己的账号")
	}
	return s.Erase(ctx, userID)
}

// Erase 每一步都可重入，中途失败后重试即可
// 资料删除放在内容和关注边之后，避免内容引用不存在的作者
func (s *AccountService) Erase(ctx context.Context, userID uint64) error {
	if err := s.Posts.DeleteAllContentForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.Stories.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.Follows.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.Notifications.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.Media.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.UserDAO.DeleteByID(ctx, userID); err != nil {
		return bizerr.Unavailable(err)
	}
	if err := s.AccountDAO.DeleteByID(ctx, userID); err != nil {
		return bizerr.Unavailable(err)
	}
	if err := s.AuthStorage.Revoke(ctx, userID, s.Clock.Now(), s.Config.Jwt.AccessTTL); err != nil {
		log.L.Warn("revoke sessions", zap.Uint64("user_id", userID), zap.Error(err))
	}
	log.L.Info("account erased", zap.Uint64("user_id", userID))
	return nil
}

func (s *AccountService) CheckExpiredDeactivation(ctx context.Context, userID uint64) (bool, error) {
	u, err := s.UserDAO.FindById(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return false, nil
		}
		return false, bizerr.Unavailable(err)
	}
	if !u.IsDeactivated || u.DeactivatedAt == nil {
		return false, nil
	}
	if !DeactivationExpired(*u.DeactivatedAt, s.Clock.Now()) {
		return false, nil
	}
	if err := s.Erase(ctx, userID); err != nil {
		return false, err
	}
	return true, nil
}
