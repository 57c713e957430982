package handler

import (
	"Bingo/middleware"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/context"
	"Bingo/pkg/response"
	"Bingo/service"
	"Bingo/types"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

type User struct {
	Authorize      middleware.Authorize
	ProfileService service.IProfileService
	AccountService service.IAccountService
	PostService    service.IPostService
}

func (u *User) RegisterRouter(r gin.IRouter) {
	authorize := gin.HandlerFunc(u.Authorize)
	g := r.Group("/users")
	g.GET("/availability", context.Wrap(u.CheckAvailability))
	g.GET("/search", authorize, context.Wrap(u.Search))
	g.GET("/:id/profile", authorize, context.Wrap(u.GetProfile))
	g.PATCH("/:id/profile", authorize, context.Wrap(u.UpdateProfile))
	g.POST("/:id/deactivate", authorize, context.Wrap(u.Deactivate))
	g.POST("/:id/reactivate", authorize, context.Wrap(u.Reactivate))
	g.DELETE("/:id", authorize, context.Wrap(u.DeleteAccount))
	g.GET("/:id/posts", authorize, context.Wrap(u.ListPosts))
}

// CheckAvailability 注册时 exclude_id 为空，修改资料时传自己的 id
func (u *User) CheckAvailability(c *gin.Context) error {
	username := c.Query("username")
	exceptID, err := queryUint(c, "exclude_id")
	if err != nil {
		return err
	}
	ok, err := u.ProfileService.CheckUsernameAvailability(c.Request.Context(), username, exceptID)
	if err != nil {
		return err
	}
	response.Success(c, types.AvailabilityResponse{Username: username, Available: ok})
	return nil
}

func (u *User) Search(c *gin.Context) error {
	limit, err := queryInt(c, "limit", types.DefaultPageSize)
	if err != nil {
		return err
	}
	users, err := u.ProfileService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		return err
	}
	response.Success(c, types.UserListResponse{Users: users})
	return nil
}

// GetProfile 用户已删除时 profile 为 null
func (u *User) GetProfile(c *gin.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	profile, err := u.ProfileService.GetProfile(c.Request.Context(), id)
	if err != nil {
		if bizerr.Is(err, bizerr.KindNotFound) {
			response.Success(c, gin.H{"profile": nil})
			return nil
		}
		return err
	}
	response.Success(c, gin.H{"profile": profile})
	return nil
}

func (u *User) UpdateProfile(c *gin.Context) error {
	uid, err := selfID(c)
	if err != nil {
		return err
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return bizerr.InvalidArgument("读取请求失败")
	}
	patch, err := parseProfilePatch(body)
	if err != nil {
		return err
	}
	profile, err := u.ProfileService.UpdateProfile(c.Request.Context(), uid, patch)
	if err != nil {
		return err
	}
	response.Success(c, profile)
	return nil
}

// parseProfilePatch 区分字段缺省、显式 null 与赋值
func parseProfilePatch(body []byte) (*types.ProfilePatch, error) {
	if !gjson.ValidBytes(body) {
		return nil, bizerr.InvalidArgument("参数格式错误")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, bizerr.InvalidArgument("参数格式错误")
	}
	patch := &types.ProfilePatch{}

	str := func(key string) (*string, bool, error) {
		v := root.Get(key)
		if !v.Exists() {
			return nil, false, nil
		}
		if v.Type == gjson.Null {
			return nil, true, nil
		}
		if v.Type != gjson.String {
			return nil, false, bizerr.InvalidArgument(key + " 必须是字符串")
		}
		s := v.String()
		return &s, false, nil
	}

	var (
		isNull bool
		err    error
	)
	if patch.Username, isNull, err = str("username"); err != nil {
		return nil, err
	} else if isNull {
		return nil, bizerr.InvalidArgument("username 不能为空")
	}
	if patch.FullName, isNull, err = str("full_name"); err != nil {
		return nil, err
	} else if isNull {
		return nil, bizerr.InvalidArgument("full_name 不能为空")
	}
	if patch.Bio, patch.ClearBio, err = str("bio"); err != nil {
		return nil, err
	}
	if patch.ProfileImageURL, patch.ClearProfileImage, err = str("profile_image_url"); err != nil {
		return nil, err
	}
	return patch, nil
}

func (u *User) Deactivate(c *gin.Context) error {
	uid, err := selfID(c)
	if err != nil {
		return err
	}
	if err := u.ProfileService.Deactivate(c.Request.Context(), uid); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (u *User) Reactivate(c *gin.Context) error {
	uid, err := selfID(c)
	if err != nil {
		return err
	}
	if err := u.ProfileService.Reactivate(c.Request.Context(), uid); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

// DeleteAccount 立即硬删除账号及全部内容
func (u *User) DeleteAccount(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := u.AccountService.DeleteAccount(c.Request.Context(), uid, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (u *User) ListPosts(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", types.DefaultPageSize)
	if err != nil {
		return err
	}
	posts, err := u.PostService.ListByAuthor(c.Request.Context(), uid, id, limit)
	if err != nil {
		return err
	}
	response.Success(c, types.FeedResponse{Posts: posts})
	return nil
}
