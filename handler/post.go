package handler

import (
	"Bingo/middleware"
	"Bingo/pkg/context"
	"Bingo/pkg/response"
	"Bingo/service"
	"Bingo/types"

	"github.com/gin-gonic/gin"
)

type Post struct {
	Authorize      middleware.Authorize
	PostService    service.IPostService
	LikeService    service.ILikeService
	CommentService service.ICommentService
}

func (p *Post) RegisterRouter(r gin.IRouter) {
	g := r.Group("/posts")
	g.Use(gin.HandlerFunc(p.Authorize))
	g.POST("", context.Wrap(p.CreatePost))
	g.GET("/:id", context.Wrap(p.GetPost))
	g.DELETE("/:id", context.Wrap(p.DeletePost))
	g.POST("/:id/like", context.Wrap(p.ToggleLike))
	g.POST("/:id/comments", context.Wrap(p.CreateComment))
	g.GET("/:id/comments", context.Wrap(p.ListComments))
}

// CreatePost 文字和图片至少有一个
func (p *Post) CreatePost(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	post, err := p.PostService.CreatePost(c.Request.Context(), uid, req.Content, req.ImageURL)
	if err != nil {
		return err
	}
	response.Success(c, post)
	return nil
}

func (p *Post) GetPost(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := p.PostService.GetPost(c.Request.Context(), uid, id)
	if err != nil {
		return err
	}
	response.Success(c, post)
	return nil
}

func (p *Post) DeletePost(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := p.PostService.DeletePost(c.Request.Context(), uid, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

// ToggleLike 点赞 / 取消点赞，返回最新计数
func (p *Post) ToggleLike(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := p.LikeService.ToggleLike(c.Request.Context(), uid, id)
	if err != nil {
		return err
	}
	response.Success(c, post)
	return nil
}

func (p *Post) CreateComment(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req types.CreateCommentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	comment, err := p.CommentService.AddComment(c.Request.Context(), id, uid, req.Content)
	if err != nil {
		return err
	}
	response.Success(c, comment)
	return nil
}

func (p *Post) ListComments(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", types.DefaultPageSize)
	if err != nil {
		return err
	}
	comments, err := p.CommentService.ListComments(c.Request.Context(), id, offset, limit)
	if err != nil {
		return err
	}
	response.Success(c, types.CommentListResponse{Comments: comments})
	return nil
}
