package handler

import (
	"Bingo/middleware"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/context"
	"Bingo/pkg/response"
	"Bingo/service"

	"github.com/gin-gonic/gin"
)

type Media struct {
	Authorize    middleware.Authorize
	MediaService service.IMediaService
}

func (m *Media) RegisterRouter(r gin.IRouter) {
	g := r.Group("/media")
	g.Use(gin.HandlerFunc(m.Authorize))
	g.POST("/upload", context.Wrap(m.UploadImage))
}

// UploadImage 表单字段 image，返回可直接用于帖子 / 动态 / 头像的地址
func (m *Media) UploadImage(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("image")
	if err != nil {
		return bizerr.InvalidArgument("请选择图片")
	}
	resp, err := m.MediaService.UploadImage(c.Request.Context(), uid, header)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}
