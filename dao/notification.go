package dao

import (
	"Bingo/models"
	"context"

	"gorm.io/gorm"
)

type NotificationDAO struct {
	Repo[models.Notification]
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{Repo: NewRepo[models.Notification](db)}
}

// ListByRecipient 按时间倒序，cursor 为上一页最后一条 id
func (d *NotificationDAO) ListByRecipient(ctx context.Context, recipientID uint64, cursor uint64, limit int) ([]*models.Notification, error) {
	var items []*models.Notification
	query := d.Db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// MarkRead 标记已读，返回是否由未读变为已读
func (d *NotificationDAO) MarkRead(ctx context.Context, recipientID, id uint64) (bool, error) {
	res := d.Db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND is_read = ?", id, recipientID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected > 0, res.Error
}

func (d *NotificationDAO) MarkAllRead(ctx context.Context, recipientID uint64) (int64, error) {
	res := d.Db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

func (d *NotificationDAO) CountUnread(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64
	err := d.Db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// DeleteAllForUser 删除用户收到的以及由用户触发的通知
// 返回因此少了未读通知的其他接收人，调用方据此清理未读数缓存
func (d *NotificationDAO) DeleteAllForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	var recipients []uint64
	err := d.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).
			Where("actor_id = ? AND recipient_id <> ? AND is_read = ?", userID, userID, false).
			Distinct().
			Pluck("recipient_id", &recipients).Error; err != nil {
			return err
		}
		return tx.Where("recipient_id = ? OR actor_id = ?", userID, userID).
			Delete(&models.Notification{}).Error
	})
	if err != nil {
		return nil, err
	}
	return recipients, nil
}
