package service

import (
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/types"
	"context"

	"github.com/benbjohnson/clock"
)

var _ IFollowService = (*FollowService)(nil)

type IFollowService interface {
	Follow(ctx context.Context, followerID, followeeID uint64) error
	Unfollow(ctx context.Context, followerID, followeeID uint64) error
	IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error)
	// ListFollowing 关注的用户 id，不含自己
	ListFollowing(ctx context.Context, userID uint64) ([]uint64, error)
	GetFollowingList(ctx context.Context, userID uint64, limit, offset int) ([]*models.Users, error)
	GetFollowerList(ctx context.Context, userID uint64, limit, offset int) ([]*models.Users, error)
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

type FollowService struct {
	FollowDAO     *dao.UserFollowDAO
	UserDAO       *dao.Users
	Notifications INotificationService
	Clock         clock.Clock
}

func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint64) error {
	// 不能关注自己
	if followerID == followeeID {
		return bizerr.InvalidArgument("不能关注自己")
	}

	// 校验被关注用户是否存在
	exist, err := s.UserDAO.IsExist(ctx, "id = ?", followeeID)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	if !exist {
		return bizerr.NotFound("用户不存在")
	}

	// 已关注时不改计数，也不再通知
	created, err := s.FollowDAO.Follow(ctx, followerID, followeeID, s.Clock.Now().UTC())
	if err != nil {
		return bizerr.Unavailable(err)
	}
	if created {
		notifyBestEffort(ctx, s.Notifications, followeeID, followerID, models.NotificationFollow, nil, nil)
	}
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint64) error {
	if followerID == followeeID {
		return bizerr.InvalidArgument("不能取消关注自己")
	}
	// 没有关注过直接返回成功
	if _, err := s.FollowDAO.Unfollow(ctx, followerID, followeeID); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == followeeID {
		return false, nil
	}
	ok, err := s.FollowDAO.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, bizerr.Unavailable(err)
	}
	return ok, nil
}

func (s *FollowService) ListFollowing(ctx context.Context, userID uint64) ([]uint64, error) {
	ids, err := s.FollowDAO.ListFolloweeIDs(ctx, userID)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	return ids, nil
}

func (s *FollowService) GetFollowingList(ctx context.Context, userID uint64, limit, offset int) ([]*models.Users, error) {
	follows, err := s.FollowDAO.GetFollowingList(ctx, userID, types.ClampPageSize(limit), offset)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FolloweeID)
	}
	return s.visibleUsers(ctx, ids)
}

func (s *FollowService) GetFollowerList(ctx context.Context, userID uint64, limit, offset int) ([]*models.Users, error) {
	follows, err := s.FollowDAO.GetFollowerList(ctx, userID, types.ClampPageSize(limit), offset)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowerID)
	}
	return s.visibleUsers(ctx, ids)
}

// visibleUsers 按 ids 顺序返回，停用用户不返回
func (s *FollowService) visibleUsers(ctx context.Context, ids []uint64) ([]*models.Users, error) {
	users, err := s.UserDAO.FindByIDs(ctx, ids)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	byID := make(map[uint64]*models.Users, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]*models.Users, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok && u.Visible() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *FollowService) DeleteAllForUser(ctx context.Context, userID uint64) error {
	if err := s.FollowDAO.DeleteAllForUser(ctx, userID); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}
