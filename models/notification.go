package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

type Notification struct {
	ID                uint64            `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	RecipientID       uint64            `gorm:"column:recipient_id;not null;index:idx_notifications_recipient,priority:1" json:"recipient_id"`
	Type              string            `gorm:"column:type;type:varchar(16);not null" json:"type"`
	ActorID           uint64            `gorm:"column:actor_id;not null;index:idx_notifications_actor" json:"actor_id"`
	ActorName         string            `gorm:"column:actor_name;type:varchar(100);not null;default:''" json:"actor_name"`
	ActorProfileImage *string           `gorm:"column:actor_profile_image;type:varchar(500)" json:"actor_profile_image,omitempty"`
	PostID            *uint64           `gorm:"column:post_id;index:idx_notifications_post" json:"post_id,omitempty"`
	IsRead            bool              `gorm:"column:is_read;not null;default:false" json:"is_read"`
	Extra             datatypes.JSONMap `gorm:"column:extra" json:"extra,omitempty"`
	CreatedAt         time.Time         `gorm:"column:created_at;not null;index:idx_notifications_recipient,priority:2" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
