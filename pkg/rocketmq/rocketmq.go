package rocketmq

import (
	"Bingo/config"
	"Bingo/pkg/log"
	"Bingo/pkg/mq"
	"context"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

var _ mq.Broker = (*Rocketmq)(nil)

// Rocketmq 基于 rocketmq 的 mq.Broker 实现
type Rocketmq struct {
	RocketmqProducer rocketmq.Producer
	RocketmqConsumer rocketmq.PushConsumer
}

func init() {
	rlog.SetLogLevel("error")
}

func InitProducer(cfg *config.RocketMQConfig) (rocketmq.Producer, error) {
	return rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
}

func InitConsumer(cfg *config.RocketMQConfig) (rocketmq.PushConsumer, error) {
	return rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
		consumer.WithConsumerModel(consumer.Clustering),
	)
}

func New(cfg *config.RocketMQConfig) (*Rocketmq, error) {
	p, err := InitProducer(cfg)
	if err != nil {
		return nil, fmt.Errorf("init producer: %w", err)
	}
	c, err := InitConsumer(cfg)
	if err != nil {
		return nil, fmt.Errorf("init consumer: %w", err)
	}
	return &Rocketmq{RocketmqProducer: p, RocketmqConsumer: c}, nil
}

// NewBroker 按配置选择 rocketmq 或进程内总线
func NewBroker(cfg *config.RocketMQConfig) (mq.Broker, error) {
	if !cfg.Enabled {
		return mq.NewLocalBus(), nil
	}
	return New(cfg)
}

func (p *Rocketmq) Publish(ctx context.Context, topic string, body []byte) error {
	msg := primitive.NewMessage(topic, body)

	// 发送同步消息
	res, err := p.RocketmqProducer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Info("send message success", zap.String("topic", topic), zap.String("msg_id", res.MsgID))
	return nil
}

// Subscribe 需在 Start 之前调用
func (p *Rocketmq) Subscribe(topic string, h mq.Handler) error {
	return p.RocketmqConsumer.Subscribe(topic, consumer.MessageSelector{},
		func(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
			// 任一消息失败整批稍后重投，处理方需可重复执行
			result := consumer.ConsumeSuccess
			for _, m := range msgs {
				if err := h(ctx, m.Body); err != nil {
					log.L.Error("consume message failed",
						zap.String("topic", topic), zap.String("msg_id", m.MsgId), zap.Error(err))
					result = consumer.ConsumeRetryLater
				}
			}
			return result, nil
		})
}

func (p *Rocketmq) Start() error {
	if err := p.RocketmqProducer.Start(); err != nil {
		return fmt.Errorf("start producer: %w", err)
	}
	if err := p.RocketmqConsumer.Start(); err != nil {
		return fmt.Errorf("start consumer: %w", err)
	}
	log.L.Info("rocketmq started")
	return nil
}

func (p *Rocketmq) Shutdown() error {
	if err := p.RocketmqConsumer.Shutdown(); err != nil {
		log.L.Warn("shutdown consumer", zap.Error(err))
	}
	return p.RocketmqProducer.Shutdown()
}
