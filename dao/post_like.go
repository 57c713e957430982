package dao

import (
	"Bingo/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type PostLikeDAO struct {
	Repo[models.PostLike]
}

func NewPostLikeDAO(db *gorm.DB) *PostLikeDAO {
	return &PostLikeDAO{Repo: NewRepo[models.PostLike](db)}
}

// Toggle 点赞/取消点赞
// 以点赞记录的删除或写入结果决定计数增减，每次切换计数只变一次
func (d *PostLikeDAO) Toggle(ctx context.Context, postID, userID uint64, now time.Time) (liked bool, changed bool, err error) {
	err = d.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked, changed = false, true
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("like_count", incr("like_count", -1)).Error
		}

		ok, err := insertIgnore(tx, &models.PostLike{PostID: postID, UserID: userID, CreatedAt: now})
		if err != nil {
			return err
		}
		liked, changed = true, ok
		if !ok {
			return nil
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("like_count", incr("like_count", 1)).Error
	})
	return liked, changed, err
}

// IsLiked 是否点赞
func (d *PostLikeDAO) IsLiked(ctx context.Context, postID, userID uint64) (bool, error) {
	return d.IsExist(ctx, "post_id = ? AND user_id = ?", postID, userID)
}

// CountByPost 点赞记录数
func (d *PostLikeDAO) CountByPost(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
