package models

import (
	"time"
)

// UserFollow 关注关系，边存在即关注中
type UserFollow struct {
	FollowerID uint64    `gorm:"column:follower_id;primaryKey;autoIncrement:false" json:"follower_id"`                            // 关注人
	FolloweeID uint64    `gorm:"column:followee_id;primaryKey;autoIncrement:false;index:idx_follow_followee" json:"followee_id"` // 被关注人
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (UserFollow) TableName() string {
	return "user_follow"
}
