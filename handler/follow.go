package handler

import (
	"Bingo/middleware"
	"Bingo/pkg/context"
	"Bingo/pkg/response"
	"Bingo/service"
	"Bingo/types"

	"github.com/gin-gonic/gin"
)

type Follow struct {
	Authorize     middleware.Authorize
	FollowService service.IFollowService
}

func (f *Follow) RegisterRouter(r gin.IRouter) {
	g := r.Group("/users")
	g.Use(gin.HandlerFunc(f.Authorize))
	g.POST("/:id/follow", context.Wrap(f.FollowUser))
	g.DELETE("/:id/follow", context.Wrap(f.UnfollowUser))
	g.GET("/:id/follow", context.Wrap(f.GetFollowStatus))
	g.GET("/:id/followers", context.Wrap(f.GetFollowerList))
	g.GET("/:id/following", context.Wrap(f.GetFollowingList))
}

// FollowUser 关注用户，重复关注不报错
func (f *Follow) FollowUser(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	targetUserID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := f.FollowService.Follow(c.Request.Context(), userID, targetUserID); err != nil {
		return err
	}
	response.Success(c, gin.H{"followed": true})
	return nil
}

// UnfollowUser 取消关注用户
func (f *Follow) UnfollowUser(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	targetUserID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := f.FollowService.Unfollow(c.Request.Context(), userID, targetUserID); err != nil {
		return err
	}
	response.Success(c, gin.H{"followed": false})
	return nil
}

func (f *Follow) GetFollowStatus(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	targetUserID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ok, err := f.FollowService.IsFollowing(c.Request.Context(), userID, targetUserID)
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"followed": ok})
	return nil
}

// GetFollowerList 粉丝列表，已停用用户不展示
func (f *Follow) GetFollowerList(c *gin.Context) error {
	id, limit, offset, err := f.listParams(c)
	if err != nil {
		return err
	}
	users, err := f.FollowService.GetFollowerList(c.Request.Context(), id, limit, offset)
	if err != nil {
		return err
	}
	response.Success(c, types.UserListResponse{Users: users})
	return nil
}

func (f *Follow) GetFollowingList(c *gin.Context) error {
	id, limit, offset, err := f.listParams(c)
	if err != nil {
		return err
	}
	users, err := f.FollowService.GetFollowingList(c.Request.Context(), id, limit, offset)
	if err != nil {
		return err
	}
	response.Success(c, types.UserListResponse{Users: users})
	return nil
}

func (f *Follow) listParams(c *gin.Context) (id uint64, limit, offset int, err error) {
	if id, err = paramID(c, "id"); err != nil {
		return
	}
	if limit, err = queryInt(c, "limit", types.DefaultPageSize); err != nil {
		return
	}
	offset, err = queryInt(c, "offset", 0)
	return
}
