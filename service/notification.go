package service

import (
	"Bingo/dao"
	"Bingo/dao/cache"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/metrics"
	"Bingo/pkg/snowflake"
	"Bingo/pkg/socket"
	"Bingo/types"
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var _ INotificationService = (*NotificationService)(nil)

type INotificationService interface {
	// Notify 自己对自己的互动不产生通知
	Notify(ctx context.Context, recipientID, actorID uint64, typ string, postID *uint64, extra map[string]any) (*models.Notification, error)
	List(ctx context.Context, recipientID uint64, cursor uint64, limit int) (*types.NotificationListResponse, error)
	MarkRead(ctx context.Context, recipientID, notificationID uint64) error
	MarkAllRead(ctx context.Context, recipientID uint64) error
	UnreadCount(ctx context.Context, recipientID uint64) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

// Pusher 在线推送
type Pusher interface {
	Push(uid uint64, resp *socket.ClientResponse) int
}

type NotificationService struct {
	NotificationDAO *dao.NotificationDAO
	UserDAO         *dao.Users
	Unread          *cache.UnreadStorage
	Pusher          Pusher
	Clock           clock.Clock
}

func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID uint64, typ string, postID *uint64, extra map[string]any) (*models.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}
	switch typ {
	case models.NotificationLike, models.NotificationComment, models.NotificationFollow:
	default:
		return nil, bizerr.InvalidArgument("未知的通知类型")
	}

	// 发起人昵称头像取当前值，不使用缓存
	actor, err := s.UserDAO.FindById(ctx, actorID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("用户不存在")
		}
		return nil, bizerr.Unavailable(err)
	}

	n := &models.Notification{
		ID:                snowflake.GenID(),
		RecipientID:       recipientID,
		Type:              typ,
		ActorID:           actorID,
		ActorName:         displayName(actor),
		ActorProfileImage: actor.ProfileImageURL,
		PostID:            postID,
		CreatedAt:         s.Clock.Now().UTC(),
	}
	if len(extra) > 0 {
		n.Extra = datatypes.JSONMap(extra)
	}
	if err := s.NotificationDAO.Create(ctx, n); err != nil {
		return nil, bizerr.Unavailable(err)
	}
	metrics.NotificationsSent.WithLabelValues(typ).Inc()

	if err := s.Unread.Incr(ctx, recipientID); err != nil {
		log.L.Warn("incr unread count", zap.Uint64("recipient_id", recipientID), zap.Error(err))
	}
	if s.Pusher != nil {
		s.Pusher.Push(recipientID, &socket.ClientResponse{Event: "notification", Payload: n})
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context, recipientID uint64, cursor uint64, limit int) (*types.NotificationListResponse, error) {
	limit = types.ClampPageSize(limit)
	items, err := s.NotificationDAO.ListByRecipient(ctx, recipientID, cursor, limit)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	resp := &types.NotificationListResponse{Notifications: items}
	if len(items) == limit {
		resp.NextCursor = items[len(items)-1].ID
	}
	return resp, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint64) error {
	exist, err := s.NotificationDAO.IsExist(ctx, "id = ? AND recipient_id = ?", notificationID, recipientID)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	if !exist {
		return bizerr.NotFound("通知不存在")
	}
	changed, err := s.NotificationDAO.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	if changed {
		if err := s.Unread.Decr(ctx, recipientID); err != nil {
			log.L.Warn("decr unread count", zap.Uint64("recipient_id", recipientID), zap.Error(err))
		}
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint64) error {
	if _, err := s.NotificationDAO.MarkAllRead(ctx, recipientID); err != nil {
		return bizerr.Unavailable(err)
	}
	if err := s.Unread.Set(ctx, recipientID, 0); err != nil {
		log.L.Warn("reset unread count", zap.Uint64("recipient_id", recipientID), zap.Error(err))
	}
	return nil
}

// UnreadCount 优先读缓存，未命中回源数据库
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	if v, ok, err := s.Unread.Get(ctx, recipientID); err == nil && ok {
		return v, nil
	} else if err != nil {
		log.L.Warn("get unread count", zap.Uint64("recipient_id", recipientID), zap.Error(err))
	}
	count, err := s.NotificationDAO.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, bizerr.Unavailable(err)
	}
	if err := s.Unread.Set(ctx, recipientID, count); err != nil {
		log.L.Warn("set unread count", zap.Uint64("recipient_id", recipientID), zap.Error(err))
	}
	return count, nil
}

func (s *NotificationService) DeleteAllForUser(ctx context.Context, userID uint64) error {
	recipients, err := s.NotificationDAO.DeleteAllForUser(ctx, userID)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	// 缓存删掉即可，下次读取回源
	for _, uid := range append(recipients, userID) {
		if err := s.Unread.Reset(ctx, uid); err != nil {
			log.L.Warn("reset unread count", zap.Uint64("user_id", uid), zap.Error(err))
		}
	}
	return nil
}

// notifyBestEffort 通知失败不影响主流程
func notifyBestEffort(ctx context.Context, n INotificationService, recipientID, actorID uint64, typ string, postID *uint64, extra map[string]any) {
	if _, err := n.Notify(ctx, recipientID, actorID, typ, postID, extra); err != nil {
		log.L.Warn("notify failed",
			zap.Uint64("recipient_id", recipientID),
			zap.Uint64("actor_id", actorID),
			zap.String("type", typ),
			zap.Error(err),
		)
	}
}

func displayName(u *models.Users) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
