package mq_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"Bingo/pkg/mq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus_PublishDeliversToAllSubscribers(t *testing.T) {
	bus := mq.NewLocalBus()
	var a, b atomic.Int32
	require.NoError(t, bus.Subscribe("t1", func(ctx context.Context, body []byte) error {
		a.Add(1)
		return nil
	}))
	require.NoError(t, bus.Subscribe("t1", func(ctx context.Context, body []byte) error {
		b.Add(1)
		return errors.New("ignored")
	}))

	require.NoError(t, bus.Publish(t.Context(), "t1", []byte("x")))
	require.NoError(t, bus.Publish(t.Context(), "t2", []byte("x")))
	bus.Flush()

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestLocalBus_HandlerOutlivesPublisherContext(t *testing.T) {
	bus := mq.NewLocalBus()
	var cancelled, called atomic.Bool
	require.NoError(t, bus.Subscribe(mq.TopicProfileUpdated, func(ctx context.Context, body []byte) error {
		called.Store(true)
		cancelled.Store(ctx.Err() != nil)
		return nil
	}))

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, mq.PublishJSON(ctx, bus, mq.TopicProfileUpdated, mq.ProfileUpdated{UserID: 1, Name: "a"}))
	cancel()
	require.NoError(t, bus.Shutdown())

	assert.True(t, called.Load())
	assert.False(t, cancelled.Load())
}
