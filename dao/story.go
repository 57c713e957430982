package dao

import (
	"Bingo/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type StoryDAO struct {
	Repo[models.Story]
}

func NewStoryDAO(db *gorm.DB) *StoryDAO {
	return &StoryDAO{Repo: NewRepo[models.Story](db)}
}

// ListActive created_at 晚于 since 的动态，按时间倒序
func (d *StoryDAO) ListActive(ctx context.Context, since time.Time) ([]*models.Story, error) {
	var stories []*models.Story
	err := d.Db.WithContext(ctx).
		Where("created_at > ?", since).
		Order("created_at DESC").
		Order("id DESC").
		Find(&stories).Error
	return stories, err
}

// AddView 记录浏览，重复浏览不写入
func (d *StoryDAO) AddView(ctx context.Context, storyID, viewerID uint64, now time.Time) (bool, error) {
	return insertIgnore(d.Db.WithContext(ctx), &models.StoryView{StoryID: storyID, ViewerID: viewerID, CreatedAt: now})
}

// ListViewers 动态的浏览者
func (d *StoryDAO) ListViewers(ctx context.Context, storyIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64, len(storyIDs))
	if len(storyIDs) == 0 {
		return out, nil
	}
	var views []*models.StoryView
	err := d.Db.WithContext(ctx).
		Where("story_id IN ?", storyIDs).
		Order("created_at ASC").
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		out[v.StoryID] = append(out[v.StoryID], v.ViewerID)
	}
	return out, nil
}

// DeleteExpired 删除 created_at 早于等于 cutoff 的动态及浏览记录
func (d *StoryDAO) DeleteExpired(ctx context.Context, cutoff time.Time, batch int) (int64, error) {
	if batch <= 0 {
		batch = 100
	}
	var total int64
	for {
		var ids []uint64
		if err := d.Db.WithContext(ctx).Model(&models.Story{}).
			Where("created_at <= ?", cutoff).
			Limit(batch).
			Pluck("id", &ids).Error; err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}
		n, err := d.deleteByIDs(ctx, ids)
		total += n
		if err != nil {
			return total, err
		}
		if len(ids) < batch {
			return total, nil
		}
	}
}

func (d *StoryDAO) deleteByIDs(ctx context.Context, ids []uint64) (int64, error) {
	var n int64
	err := d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("story_id IN ?", ids).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&models.Story{})
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}

// UpdateAuthor 回刷冗余的作者昵称头像
func (d *StoryDAO) UpdateAuthor(ctx context.Context, authorID uint64, name string, avatar *string) (int64, error) {
	res := d.Db.WithContext(ctx).
		Model(&models.Story{}).
		Where("author_id = ?", authorID).
		UpdateColumns(map[string]any{"author_name": name, "author_profile_image": avatar})
	return res.RowsAffected, res.Error
}

// DeleteAllForUser 删除用户发布的动态和浏览记录
func (d *StoryDAO) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		var ids []uint64
		if err := tx.Model(&models.Story{}).Where("author_id = ?", userID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Where("story_id IN ?", ids).Delete(&models.StoryView{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ids).Delete(&models.Story{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("viewer_id = ?", userID).Delete(&models.StoryView{}).Error
	})
}
