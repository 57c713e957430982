package service

import (
	"Bingo/dao"
	"Bingo/pkg/log"
	"Bingo/pkg/mq"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ReauthorSubscriber 消费资料变更事件，回刷帖子、评论、动态上的作者信息
// 事件只作为触发信号，写入的是处理时的最新资料，投递顺序不影响结果
type ReauthorSubscriber struct {
	UserDAO *dao.Users
	Posts   IPostService
	Stories IStoryService
}

func (s *ReauthorSubscriber) Register(b mq.Broker) error {
	return b.Subscribe(mq.TopicProfileUpdated, s.Handle)
}

func (s *ReauthorSubscriber) Handle(ctx context.Context, body []byte) error {
	var evt mq.ProfileUpdated
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("decode profile updated: %w", err)
	}
	if evt.UserID == 0 {
		return fmt.Errorf("profile updated without user id")
	}
	u, err := s.UserDAO.FindById(ctx, evt.UserID)
	if dao.IsNotFound(err) {
		// 账号已删除，内容随账号清理
		log.L.Info("reauthor skipped, user gone", zap.Uint64("user_id", evt.UserID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	name := displayName(u)
	return errors.Join(
		s.Posts.ReauthorFanOut(ctx, u.ID, name, u.ProfileImageURL),
		s.Stories.Reauthor(ctx, u.ID, name, u.ProfileImageURL),
	)
}
