package mq

import (
	"context"
	"sync"

	"Bingo/pkg/log"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// LocalBus 进程内事件总线，未启用 rocketmq 时使用
// 每条消息在独立协程中投递给全部订阅者
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       conc.WaitGroup
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[string][]Handler)}
}

func (b *LocalBus) Publish(ctx context.Context, topic string, body []byte) error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	// 请求结束后订阅者仍需执行
	ctx = context.WithoutCancel(ctx)
	for _, h := range hs {
		b.wg.Go(func() {
			if err := h(ctx, body); err != nil {
				log.L.Error("local bus handle failed", zap.String("topic", topic), zap.Error(err))
			}
		})
	}
	return nil
}

func (b *LocalBus) Subscribe(topic string, h Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
	return nil
}

func (b *LocalBus) Start() error { return nil }

// Shutdown 等待在途消息处理完毕
func (b *LocalBus) Shutdown() error {
	b.Flush()
	return nil
}

// Flush 等待已发布消息处理完毕
func (b *LocalBus) Flush() {
	b.wg.Wait()
}
