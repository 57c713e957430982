package context

import (
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/response"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID = "user_id"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			kind := bizerr.KindOf(err)
			if kind == bizerr.KindInternal || kind == bizerr.KindUnavailable {
				log.L.Error("request failed",
					zap.String("path", c.FullPath()),
					zap.String("kind", kind.String()),
					zap.Error(err),
				)
			}
			response.Fail(c, kind.HTTPStatus(), bizerr.Message(err))
		}
	}
}

func GetUserID(c *gin.Context) (uint64, error) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, bizerr.Unauthenticated("未登录")
	}

	uid, ok := v.(uint64)
	if !ok {
		return 0, errors.New("user_id 类型错误")
	}

	return uid, nil
}
