package types

import (
	"Bingo/models"
	"time"
)

type CreateStoryRequest struct {
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
}

// StoryView 动态 + 浏览者
type StoryView struct {
	*models.Story
	ViewerIDs []uint64  `json:"viewer_ids"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StoryGroup 同一作者的有效动态
type StoryGroup struct {
	AuthorID           uint64       `json:"author_id"`
	AuthorName         string       `json:"author_name"`
	AuthorProfileImage *string      `json:"author_profile_image,omitempty"`
	Stories            []*StoryView `json:"stories"`
	HasUnviewed        bool         `json:"has_unviewed"`
}

type ActiveStoriesResponse struct {
	Groups []*StoryGroup `json:"groups"`
}
