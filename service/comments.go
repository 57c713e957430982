package service

import (
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/snowflake"
	"Bingo/types"
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/benbjohnson/clock"
)

const (
	maxCommentLen = 1000
	previewLen    = 50
)

var _ ICommentService = (*CommentService)(nil)

type ICommentService interface {
	AddComment(ctx context.Context, postID, authorID uint64, content string) (*models.Comment, error)
	// ListComments 按时间正序
	ListComments(ctx context.Context, postID uint64, offset, limit int) ([]*models.Comment, error)
}

type CommentService struct {
	CommentDAO    *dao.Comment
	PostDAO       *dao.PostDAO
	UserDAO       *dao.Users
	Notifications INotificationService
	Clock         clock.Clock
}

func (s *CommentService) AddComment(ctx context.Context, postID, authorID uint64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, bizerr.InvalidArgument("评论内容不能为空")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, bizerr.InvalidArgument("评论内容过长")
	}

	post, err := s.PostDAO.FindById(ctx, postID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("帖子不存在")
		}
		return nil, bizerr.Unavailable(err)
	}
	author, err := s.UserDAO.FindById(ctx, authorID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("用户不存在")
		}
		return nil, bizerr.Unavailable(err)
	}

	comment := &models.Comment{
		ID:                 snowflake.GenID(),
		PostID:             postID,
		AuthorID:           authorID,
		AuthorName:         displayName(author),
		AuthorProfileImage: author.ProfileImageURL,
		Content:            content,
		CreatedAt:          s.Clock.Now().UTC(),
	}
	if err := s.CommentDAO.CreateWithCount(ctx, comment); err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("帖子不存在")
		}
		return nil, bizerr.Unavailable(err)
	}

	notifyBestEffort(ctx, s.Notifications, post.AuthorID, authorID, models.NotificationComment, &post.ID,
		map[string]any{"comment_id": strconv.FormatUint(comment.ID, 10), "preview": preview(content)})
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint64, offset, limit int) ([]*models.Comment, error) {
	exist, err := s.PostDAO.IsExist(ctx, "id = ?", postID)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	if !exist {
		return nil, bizerr.NotFound("帖子不存在")
	}
	if offset < 0 {
		offset = 0
	}
	comments, err := s.CommentDAO.ListByPost(ctx, postID, offset, types.ClampPageSize(limit))
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	return comments, nil
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen]) + "…"
}
