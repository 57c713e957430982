package models

import "time"

// Users 用户资料
// 计数字段是 user_follow / posts 的冗余缓存，只允许原子增减
type Users struct {
	ID              uint64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Email           string     `gorm:"column:email;type:varchar(191);not null;default:''" json:"email"`
	Username        string     `gorm:"column:username;type:varchar(64);not null;uniqueIndex:uk_users_username" json:"username"`
	FullName        string     `gorm:"column:full_name;type:varchar(100);not null;default:''" json:"full_name"`
	Bio             *string    `gorm:"column:bio;type:varchar(500)" json:"bio,omitempty"`
	ProfileImageURL *string    `gorm:"column:profile_image_url;type:varchar(500)" json:"profile_image_url,omitempty"`
	FollowerCount   int64      `gorm:"column:follower_count;not null;default:0" json:"follower_count"`
	FollowingCount  int64      `gorm:"column:following_count;not null;default:0" json:"following_count"`
	PostCount       int64      `gorm:"column:post_count;not null;default:0" json:"post_count"`
	IsDeactivated   bool       `gorm:"column:is_deactivated;not null;default:false;index:idx_users_deactivated,priority:1" json:"is_deactivated"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at;index:idx_users_deactivated,priority:2" json:"deactivated_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Users) TableName() string {
	return "users"
}

// Visible 停用账号的内容不对外展示
func (u *Users) Visible() bool {
	return u != nil && !u.IsDeactivated
}
