package models

import "time"

// StoryTTL 限时动态有效期
const StoryTTL = 24 * time.Hour

type Story struct {
	ID                 uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	AuthorID           uint64    `gorm:"column:author_id;not null;index:idx_stories_author" json:"author_id"`
	AuthorName         string    `gorm:"column:author_name;type:varchar(100);not null;default:''" json:"author_name"`
	AuthorProfileImage *string   `gorm:"column:author_profile_image;type:varchar(500)" json:"author_profile_image,omitempty"`
	ImageURL           *string   `gorm:"column:image_url;type:varchar(500)" json:"image_url,omitempty"`
	VideoURL           *string   `gorm:"column:video_url;type:varchar(500)" json:"video_url,omitempty"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;index:idx_stories_created" json:"created_at"`
}

func (Story) TableName() string {
	return "stories"
}

// Expired now - created_at >= 24h
func (s *Story) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) >= StoryTTL
}

// StoryView 浏览记录，重复浏览不重复写入
type StoryView struct {
	StoryID   uint64    `gorm:"column:story_id;primaryKey;autoIncrement:false" json:"story_id"`
	ViewerID  uint64    `gorm:"column:viewer_id;primaryKey;autoIncrement:false;index:idx_story_views_viewer" json:"viewer_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (StoryView) TableName() string {
	return "story_views"
}
