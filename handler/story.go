package handler

import (
	"Bingo/middleware"
	"Bingo/pkg/context"
	"Bingo/pkg/response"
	"Bingo/service"
	"Bingo/types"

	"github.com/gin-gonic/gin"
)

type Story struct {
	Authorize    middleware.Authorize
	StoryService service.IStoryService
}

func (s *Story) RegisterRouter(r gin.IRouter) {
	g := r.Group("/stories")
	g.Use(gin.HandlerFunc(s.Authorize))
	g.POST("", context.Wrap(s.CreateStory))
	g.GET("/active", context.Wrap(s.ActiveStories))
	g.POST("/:id/view", context.Wrap(s.ViewStory))
}

func (s *Story) CreateStory(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateStoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	story, err := s.StoryService.CreateStory(c.Request.Context(), uid, req.ImageURL, req.VideoURL)
	if err != nil {
		return err
	}
	response.Success(c, story)
	return nil
}

// ActiveStories 24 小时内的动态，按作者分组
func (s *Story) ActiveStories(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	groups, err := s.StoryService.ActiveStories(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, types.ActiveStoriesResponse{Groups: groups})
	return nil
}

func (s *Story) ViewStory(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.StoryService.ViewStory(c.Request.Context(), uid, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
