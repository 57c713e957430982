package dao

import (
	"Bingo/models"
	"context"

	"gorm.io/gorm"
)

type Comment struct {
	Repo[models.Comment]
}

func NewComment(db *gorm.DB) *Comment {
	return &Comment{
		Repo: NewRepo[models.Comment](db),
	}
}

// CreateWithCount 写入评论并给帖子 comment_count +1，帖子不存在时回滚
func (d *Comment) CreateWithCount(ctx context.Context, comment *models.Comment) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", incr("comment_count", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListByPost 帖子评论（按时间正序）
func (d *Comment) ListByPost(ctx context.Context, postID uint64, offset, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := d.Db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// UpdateAuthor 回刷冗余的作者昵称头像
func (d *Comment) UpdateAuthor(ctx context.Context, authorID uint64, name string, avatar *string) (int64, error) {
	res := d.Db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("author_id = ?", authorID).
		UpdateColumns(map[string]any{"author_name": name, "author_profile_image": avatar})
	return res.RowsAffected, res.Error
}
