package service

import (
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/snowflake"
	"Bingo/types"
	"context"
	"errors"
	"strings"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

var _ IPostService = (*PostService)(nil)

type IPostService interface {
	CreatePost(ctx context.Context, authorID uint64, content string, imageURL *string) (*models.Post, error)
	GetPost(ctx context.Context, viewerID, postID uint64) (*types.PostView, error)
	DeletePost(ctx context.Context, requesterID, postID uint64) error
	// ListByAuthor 作者主页，作者停用或不存在时返回 NotFound
	ListByAuthor(ctx context.Context, viewerID, authorID uint64, limit int) ([]*types.PostView, error)
	// ReauthorFanOut 回刷帖子和评论上的作者信息，可重复执行
	ReauthorFanOut(ctx context.Context, userID uint64, name string, avatar *string) error
	DeleteAllContentForUser(ctx context.Context, userID uint64) error
}

type PostService struct {
	PostDAO    *dao.PostDAO
	CommentDAO *dao.Comment
	LikeDAO    *dao.PostLikeDAO
	UserDAO    *dao.Users
	Clock      clock.Clock
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint64, content string, imageURL *string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if imageURL != nil && strings.TrimSpace(*imageURL) == "" {
		imageURL = nil
	}
	if content == "" && imageURL == nil {
		return nil, bizerr.InvalidArgument("内容和图片不能同时为空")
	}

	// 作者信息取发帖时的资料
	author, err := s.UserDAO.FindById(ctx, authorID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("用户不存在")
		}
		return nil, bizerr.Unavailable(err)
	}

	post := &models.Post{
		ID:                 snowflake.GenID(),
		AuthorID:           authorID,
		AuthorName:         displayName(author),
		AuthorProfileImage: author.ProfileImageURL,
		Content:            content,
		ImageURL:           imageURL,
		CreatedAt:          s.Clock.Now().UTC(),
	}
	if err := s.PostDAO.CreateWithCount(ctx, post); err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("用户不存在")
		}
		return nil, bizerr.Unavailable(err)
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint64) (*types.PostView, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	author, err := s.UserDAO.FindById(ctx, post.AuthorID)
	if err != nil && !dao.IsNotFound(err) {
		return nil, bizerr.Unavailable(err)
	}
	if err != nil || !author.Visible() {
		return nil, bizerr.NotFound("帖子不存在")
	}
	return s.view(ctx, viewerID, post)
}

func (s *PostService) view(ctx context.Context, viewerID uint64, post *models.Post) (*types.PostView, error) {
	v := &types.PostView{Post: post}
	if viewerID == 0 {
		return v, nil
	}
	liked, err := s.LikeDAO.IsLiked(ctx, post.ID, viewerID)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	v.IsLikedByUser = liked
	return v, nil
}

func (s *PostService) findPost(ctx context.Context, postID uint64) (*models.Post, error) {
	post, err := s.PostDAO.FindById(ctx, postID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("帖子不存在")
		}
		return nil, bizerr.Unavailable(err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, requesterID, postID uint64) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return bizerr.PermissionDenied("只能删除自己的帖子")
	}
	if err := s.PostDAO.DeleteWithCount(ctx, postID, requesterID); err != nil {
		if dao.IsNotFound(err) {
			return bizerr.NotFound("帖子不存在")
		}
		return bizerr.Unavailable(err)
	}
	return nil
}

func (s *PostService) ListByAuthor(ctx context.Context, viewerID, authorID uint64, limit int) ([]*types.PostView, error) {
	author, err := s.UserDAO.FindById(ctx, authorID)
	if err != nil && !dao.IsNotFound(err) {
		return nil, bizerr.Unavailable(err)
	}
	if err != nil || !author.Visible() {
		return nil, bizerr.NotFound("用户不存在")
	}
	posts, err := s.PostDAO.ListByAuthors(ctx, []uint64{authorID}, types.ClampPageSize(limit))
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	out := make([]*types.PostView, 0, len(posts))
	for _, p := range posts {
		v, err := s.view(ctx, viewerID, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *PostService) ReauthorFanOut(ctx context.Context, userID uint64, name string, avatar *string) error {
	var errs []error
	if n, err := s.PostDAO.UpdateAuthor(ctx, userID, name, avatar); err != nil {
		log.L.Error("reauthor posts failed", zap.Uint64("user_id", userID), zap.Error(err))
		errs = append(errs, err)
	} else {
		log.L.Info("reauthor posts", zap.Uint64("user_id", userID), zap.Int64("rows", n))
	}
	if n, err := s.CommentDAO.UpdateAuthor(ctx, userID, name, avatar); err != nil {
		log.L.Error("reauthor comments failed", zap.Uint64("user_id", userID), zap.Error(err))
		errs = append(errs, err)
	} else {
		log.L.Info("reauthor comments", zap.Uint64("user_id", userID), zap.Int64("rows", n))
	}
	return errors.Join(errs...)
}

func (s *PostService) DeleteAllContentForUser(ctx context.Context, userID uint64) error {
	if err := s.PostDAO.DeleteAllForUser(ctx, userID); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}
