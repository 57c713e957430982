package dao

import (
	"Bingo/models"
	"context"

	"gorm.io/gorm"
)

type Image struct {
	Repo[models.Image]
}

func NewImage(db *gorm.DB) *Image {
	return &Image{Repo: NewRepo[models.Image](db)}
}

func (d *Image) CreateImage(ctx context.Context, image *models.Image) error {
	return d.Db.WithContext(ctx).Create(image).Error
}

// ListKeysByUser 用户上传过的对象 key
func (d *Image) ListKeysByUser(ctx context.Context, userID uint64) ([]string, error) {
	var keys []string
	err := d.Db.WithContext(ctx).
		Model(&models.Image{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("oss_key", &keys).Error
	return keys, err
}

func (d *Image) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return d.Delete(ctx, "user_id = ?", userID)
}
