package types

import "Bingo/models"

// Pagination 分页常量
const (
	DefaultPageSize int = 20  // 默认每页数量
	MaxPageSize     int = 100 // 每页上限
)

type CreatePostRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// PostView 帖子 + 当前用户点赞状态
type PostView struct {
	*models.Post
	IsLikedByUser bool `json:"is_liked_by_user"`
}

type FeedResponse struct {
	Posts []*PostView `json:"posts"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentListResponse struct {
	Comments []*models.Comment `json:"comments"`
}

// ClampPageSize 分页大小限制在 [1, MaxPageSize]
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
