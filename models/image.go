package models

import "time"

const ImageStatusUploaded = 1

// Image 用户上传的图片，账号删除时连同对象存储一起清理
type Image struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	UserID      uint64    `gorm:"column:user_id;not null;index:idx_images_user" json:"user_id"`
	OssKey      string    `gorm:"column:oss_key;type:varchar(255);not null;uniqueIndex:uk_images_key" json:"-"`
	ContentType string    `gorm:"column:content_type;type:varchar(32);not null" json:"content_type"`
	Size        int64     `gorm:"column:size;not null" json:"size"`
	Width       int       `gorm:"column:width;not null" json:"width"`
	Height      int       `gorm:"column:height;not null" json:"height"`
	Status      int       `gorm:"column:status;not null;default:1" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Image) TableName() string {
	return "images"
}
