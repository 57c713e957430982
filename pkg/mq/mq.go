package mq

import (
	"context"
	"encoding/json"
)

const (
	// TopicProfileUpdated 用户资料变更，触发作者信息回刷
	TopicProfileUpdated = "bingo_profile_updated"
)

// ProfileUpdated 资料变更事件
type ProfileUpdated struct {
	UserID uint64  `json:"user_id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// Handler 返回错误时 rocketmq 稍后重投，本地总线只记录日志
type Handler func(ctx context.Context, body []byte) error

// Broker 事件发布订阅
type Broker interface {
	Publish(ctx context.Context, topic string, body []byte) error
	Subscribe(topic string, h Handler) error
	Start() error
	Shutdown() error
}

// PublishJSON 序列化后发布
func PublishJSON(ctx context.Context, b Broker, topic string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Publish(ctx, topic, body)
}
