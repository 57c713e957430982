package handler

import (
	"Bingo/pkg/bizerr"
	"Bingo/pkg/context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, bizerr.InvalidArgument(name + " 格式错误")
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, bizerr.InvalidArgument(name + " 格式错误")
	}
	return n, nil
}

func queryUint(c *gin.Context, name string) (uint64, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, bizerr.InvalidArgument(name + " 格式错误")
	}
	return n, nil
}

// queryTimeout 读请求的超时时间，支持 500ms / 2s 这类写法
func queryTimeout(c *gin.Context, def, max time.Duration) (time.Duration, error) {
	v := c.Query("timeout")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, bizerr.InvalidArgument("timeout 格式错误")
	}
	if d > max {
		d = max
	}
	return d, nil
}

// selfID 路径中的用户必须是当前登录用户
func selfID(c *gin.Context) (uint64, error) {
	uid, err := context.GetUserID(c)
	if err != nil {
		return 0, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return 0, err
	}
	if id != uid {
		return 0, bizerr.PermissionDenied("无权操作其他用户")
	}
	return uid, nil
}

func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bizerr.Wrap(bizerr.KindInvalidArgument, err, "参数格式错误")
	}
	return nil
}
