package handler

import (
	"Bingo/config"
	"Bingo/middleware"
	"Bingo/pkg/context"
	"Bingo/pkg/response"
	"Bingo/service"
	"Bingo/types"
	stdctx "context"

	"github.com/gin-gonic/gin"
)

type Feed struct {
	Config      *config.Config
	Authorize   middleware.Authorize
	FeedService service.IFeedService
}

func (f *Feed) RegisterRouter(r gin.IRouter) {
	g := r.Group("/feed")
	g.Use(gin.HandlerFunc(f.Authorize))
	g.GET("/home", context.Wrap(f.Home))
	g.GET("/trending", context.Wrap(f.Trending))
}

// Home 关注的人的帖子，?limit= ?timeout=
func (f *Feed) Home(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel, limit, err := f.readScope(c, f.Config.Feed.HomeLimit)
	if err != nil {
		return err
	}
	defer cancel()

	posts, err := f.FeedService.HomeFeed(ctx, uid, limit)
	if err != nil {
		return err
	}
	response.Success(c, types.FeedResponse{Posts: posts})
	return nil
}

func (f *Feed) Trending(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel, limit, err := f.readScope(c, f.Config.Feed.TrendingLimit)
	if err != nil {
		return err
	}
	defer cancel()

	posts, err := f.FeedService.TrendingFeed(ctx, uid, limit)
	if err != nil {
		return err
	}
	response.Success(c, types.FeedResponse{Posts: posts})
	return nil
}

func (f *Feed) readScope(c *gin.Context, defLimit int) (stdctx.Context, stdctx.CancelFunc, int, error) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return nil, nil, 0, err
	}
	timeout, err := queryTimeout(c, f.Config.Feed.Timeout, f.Config.Feed.Timeout)
	if err != nil {
		return nil, nil, 0, err
	}
	ctx, cancel := stdctx.WithTimeout(c.Request.Context(), timeout)
	return ctx, cancel, f.Config.Feed.Clamp(limit, defLimit), nil
}
