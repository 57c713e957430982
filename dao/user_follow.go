package dao

import (
	"Bingo/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type UserFollowDAO struct {
	Repo[models.UserFollow]
}

func NewUserFollowDAO(db *gorm.DB) *UserFollowDAO {
	return &UserFollowDAO{
		Repo: NewRepo[models.UserFollow](db),
	}
}

// IsFollowing 检查是否已关注
func (d *UserFollowDAO) IsFollowing(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	return d.IsExist(ctx, "follower_id = ? AND followee_id = ?", followerID, followeeID)
}

// Follow 写入关注边并更新双方计数，同一事务
// 边已存在时不改计数，返回 false
func (d *UserFollowDAO) Follow(ctx context.Context, followerID, followeeID uint64, now time.Time) (bool, error) {
	var created bool
	err := d.Transaction(ctx, func(tx *gorm.DB) error {
		ok, err := insertIgnore(tx, &models.UserFollow{
			FollowerID: followerID,
			FolloweeID: followeeID,
			CreatedAt:  now,
		})
		if err != nil || !ok {
			return err
		}
		created = true
		return d.incrCounts(tx, followerID, followeeID, 1)
	})
	return created, err
}

// Unfollow 删除关注边，边存在时才扣减计数
func (d *UserFollowDAO) Unfollow(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var removed bool
	err := d.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.UserFollow{})
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		removed = true
		return d.incrCounts(tx, followerID, followeeID, -1)
	})
	return removed, err
}

func (d *UserFollowDAO) incrCounts(tx *gorm.DB, followerID, followeeID uint64, delta int64) error {
	if err := tx.Model(&models.Users{}).Where("id = ?", followerID).
		UpdateColumn("following_count", incr("following_count", delta)).Error; err != nil {
		return err
	}
	return tx.Model(&models.Users{}).Where("id = ?", followeeID).
		UpdateColumn("follower_count", incr("follower_count", delta)).Error
}

// ListFolloweeIDs 关注的用户 id
func (d *UserFollowDAO) ListFolloweeIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := d.Db.WithContext(ctx).
		Model(&models.UserFollow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

// GetFollowingList 关注列表（按关注时间倒序）
func (d *UserFollowDAO) GetFollowingList(ctx context.Context, userID uint64, limit, offset int) ([]*models.UserFollow, error) {
	var follows []*models.UserFollow
	err := d.Db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error
	return follows, err
}

// GetFollowerList 粉丝列表（按关注时间倒序）
func (d *UserFollowDAO) GetFollowerList(ctx context.Context, userID uint64, limit, offset int) ([]*models.UserFollow, error) {
	var follows []*models.UserFollow
	err := d.Db.WithContext(ctx).
		Where("followee_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error
	return follows, err
}

// DeleteAllForUser 删除用户的全部关注边，并修正对端用户的计数
func (d *UserFollowDAO) DeleteAllForUser(ctx context.Context, userID uint64) error {
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		var followees, followers []uint64
		if err := tx.Model(&models.UserFollow{}).Where("follower_id = ?", userID).
			Pluck("followee_id", &followees).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.UserFollow{}).Where("followee_id = ?", userID).
			Pluck("follower_id", &followers).Error; err != nil {
			return err
		}
		if len(followees) > 0 {
			if err := tx.Model(&models.Users{}).Where("id IN ?", followees).
				UpdateColumn("follower_count", incr("follower_count", -1)).Error; err != nil {
				return err
			}
		}
		if len(followers) > 0 {
			if err := tx.Model(&models.Users{}).Where("id IN ?", followers).
				UpdateColumn("following_count", incr("following_count", -1)).Error; err != nil {
				return err
			}
		}
		return tx.Where("follower_id = ? OR followee_id = ?", userID, userID).
			Delete(&models.UserFollow{}).Error
	})
}
