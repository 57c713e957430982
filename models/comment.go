package models

import "time"

type Comment struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	PostID             uint64    `gorm:"column:post_id;not null;index:idx_comments_post_created,priority:1" json:"post_id"`
	AuthorID           uint64    `gorm:"column:author_id;not null;index:idx_comments_author" json:"author_id"`
	AuthorName         string    `gorm:"column:author_name;type:varchar(100);not null;default:''" json:"author_name"`
	AuthorProfileImage *string   `gorm:"column:author_profile_image;type:varchar(500)" json:"author_profile_image,omitempty"`
	Content            string    `gorm:"column:content;type:text" json:"content"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;index:idx_comments_post_created,priority:2" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
