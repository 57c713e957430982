package dao

import (
	"Bingo/models"
	"context"

	"gorm.io/gorm"
)

type PostDAO struct {
	Repo[models.Post]
}

func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{Repo: NewRepo[models.Post](db)}
}

// CreateWithCount 写入帖子并给作者 post_count +1
func (d *PostDAO) CreateWithCount(ctx context.Context, post *models.Post) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Users{}).Where("id = ?", post.AuthorID).
			UpdateColumn("post_count", incr("post_count", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteWithCount 删除帖子及其点赞、评论，作者 post_count -1
func (d *PostDAO) DeleteWithCount(ctx context.Context, postID, authorID uint64) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND author_id = ?", postID, authorID).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Users{}).Where("id = ?", authorID).
			UpdateColumn("post_count", incr("post_count", -1)).Error
	})
}

// ListByAuthors 指定作者的帖子，按时间倒序
func (d *PostDAO) ListByAuthors(ctx context.Context, authorIDs []uint64, limit int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []*models.Post
	err := d.Db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListTrending 点赞数倒序，相同点赞数按时间倒序
func (d *PostDAO) ListTrending(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := d.Db.WithContext(ctx).
		Order("like_count DESC").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// UpdateAuthor 回刷冗余的作者昵称头像
func (d *PostDAO) UpdateAuthor(ctx context.Context, authorID uint64, name string, avatar *string) (int64, error) {
	res := d.Db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		UpdateColumns(map[string]any{"author_name": name, "author_profile_image": avatar})
	return res.RowsAffected, res.Error
}

// DeleteAllForUser 删除用户的帖子、点赞、评论
// 用户在他人帖子上的点赞和评论会扣减对应帖子的计数
func (d *PostDAO) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		var own []uint64
		if err := tx.Model(&models.Post{}).Where("author_id = ?", userID).
			Pluck("id", &own).Error; err != nil {
			return err
		}
		if len(own) > 0 {
			if err := tx.Where("post_id IN ?", own).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", own).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", own).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		var liked []uint64
		if err := tx.Model(&models.PostLike{}).Where("user_id = ?", userID).
			Pluck("post_id", &liked).Error; err != nil {
			return err
		}
		if len(liked) > 0 {
			if err := tx.Model(&models.Post{}).Where("id IN ?", liked).
				UpdateColumn("like_count", incr("like_count", -1)).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
		}

		var commented []struct {
			PostID uint64
			Total  int64
		}
		if err := tx.Model(&models.Comment{}).
			Select("post_id, COUNT(*) AS total").
			Where("author_id = ?", userID).
			Group("post_id").
			Scan(&commented).Error; err != nil {
			return err
		}
		for _, c := range commented {
			if err := tx.Model(&models.Post{}).Where("id = ?", c.PostID).
				UpdateColumn("comment_count", incr("comment_count", -c.Total)).Error; err != nil {
				return err
			}
		}
		return tx.Where("author_id = ?", userID).Delete(&models.Comment{}).Error
	})
}
