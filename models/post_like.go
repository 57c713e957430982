package models

import "time"

// PostLike 点赞记录，like_count 以这张表为准
// 主键: post_id + user_id
type PostLike struct {
	PostID    uint64    `gorm:"column:post_id;primaryKey;autoIncrement:false" json:"post_id"`
	UserID    uint64    `gorm:"column:user_id;primaryKey;autoIncrement:false;index:idx_post_likes_user" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }
