package service

import (
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/types"
	"context"

	"github.com/benbjohnson/clock"
)

var _ ILikeService = (*LikeService)(nil)

type ILikeService interface {
	// ToggleLike 已点赞则取消，否则点赞；返回最新计数
	ToggleLike(ctx context.Context, userID, postID uint64) (*types.PostView, error)
	IsLiked(ctx context.Context, userID, postID uint64) (bool, error)
}

type LikeService struct {
	LikeDAO       *dao.PostLikeDAO
	PostDAO       *dao.PostDAO
	Notifications INotificationService
	Clock         clock.Clock
}

func (s *LikeService) ToggleLike(ctx context.Context, userID, postID uint64) (*types.PostView, error) {
	// 校验帖子存在
	post, err := s.PostDAO.FindById(ctx, postID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("帖子不存在")
		}
		return nil, bizerr.Unavailable(err)
	}

	// 点赞记录写入在计数和通知之前
	liked, changed, err := s.LikeDAO.Toggle(ctx, postID, userID, s.Clock.Now().UTC())
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	if liked && changed {
		notifyBestEffort(ctx, s.Notifications, post.AuthorID, userID, models.NotificationLike, &post.ID, nil)
	}

	updated, err := s.PostDAO.FindById(ctx, postID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("帖子不存在")
		}
		return nil, bizerr.Unavailable(err)
	}
	return &types.PostView{Post: updated, IsLikedByUser: liked}, nil
}

func (s *LikeService) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	ok, err := s.LikeDAO.IsLiked(ctx, postID, userID)
	if err != nil {
		return false, bizerr.Unavailable(err)
	}
	return ok, nil
}
