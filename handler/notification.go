package handler

import (
	"Bingo/middleware"
	"Bingo/pkg/context"
	"Bingo/pkg/log"
	"Bingo/pkg/response"
	"Bingo/pkg/socket"
	"Bingo/service"
	"Bingo/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Notification struct {
	Authorize           middleware.Authorize
	NotificationService service.INotificationService
	Hub                 *socket.Hub
}

func (n *Notification) RegisterRouter(r gin.IRouter) {
	g := r.Group("/notifications")
	g.Use(gin.HandlerFunc(n.Authorize))
	g.GET("", context.Wrap(n.List))
	g.GET("/unread-count", context.Wrap(n.UnreadCount))
	g.POST("/read-all", context.Wrap(n.MarkAllRead))
	g.POST("/:id/read", context.Wrap(n.MarkRead))
	g.GET("/ws", context.Wrap(n.Connect))
}

// List 按 id 倒序，?cursor= 为上一页最后一条的 id
func (n *Notification) List(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	cursor, err := queryUint(c, "cursor")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", types.DefaultPageSize)
	if err != nil {
		return err
	}
	resp, err := n.NotificationService.List(c.Request.Context(), uid, cursor, limit)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (n *Notification) UnreadCount(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	count, err := n.NotificationService.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		return err
	}
	response.Success(c, types.UnreadCountResponse{Count: count})
	return nil
}

func (n *Notification) MarkRead(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := n.NotificationService.MarkRead(c.Request.Context(), uid, id); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (n *Notification) MarkAllRead(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	if err := n.NotificationService.MarkAllRead(c.Request.Context(), uid); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

// Connect 升级为 websocket，新通知实时推送
func (n *Notification) Connect(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已写回错误响应
		log.L.Warn("websocket upgrade", zap.Uint64("user_id", uid), zap.Error(err))
		return nil
	}
	n.Hub.Serve(c.Request.Context(), conn, uid)
	return nil
}
