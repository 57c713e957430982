package models

import (
	"time"
)

// Post 帖子，作者昵称头像冗余存储，资料修改后异步回刷
type Post struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	AuthorID           uint64    `gorm:"column:author_id;not null;index:idx_posts_author_created,priority:1" json:"author_id"`
	AuthorName         string    `gorm:"column:author_name;type:varchar(100);not null;default:''" json:"author_name"`
	AuthorProfileImage *string   `gorm:"column:author_profile_image;type:varchar(500)" json:"author_profile_image,omitempty"`
	Content            string    `gorm:"column:content;type:text" json:"content"`
	ImageURL           *string   `gorm:"column:image_url;type:varchar(500)" json:"image_url,omitempty"`
	LikeCount          int64     `gorm:"column:like_count;not null;default:0;index:idx_posts_trending,priority:1" json:"like_count"`
	CommentCount       int64     `gorm:"column:comment_count;not null;default:0" json:"comment_count"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;index:idx_posts_author_created,priority:2;index:idx_posts_trending,priority:2;index:idx_posts_created" json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}
