//go:build wireinject
// +build wireinject

package main

import (
	"Bingo/config"
	"Bingo/dao"
	"Bingo/dao/cache"
	"Bingo/handler"
	"Bingo/middleware"
	"Bingo/pkg/client"
	"Bingo/pkg/database"
	"Bingo/pkg/oss"
	"Bingo/pkg/rocketmq"
	"Bingo/pkg/server"
	"Bingo/pkg/socket"
	"Bingo/service"

	"github.com/benbjohnson/clock"
	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, error) {
	wire.Build(

		client.NewRedisClient,
		database.NewDB,
		config.ProvideOssConfig,
		config.ProvideRocketMQConfig,
		rocketmq.NewBroker,
		oss.NewBucket,
		wire.Bind(new(oss.Bucket), new(*oss.AliyunBucket)),
		wire.InterfaceValue(new(clock.Clock), clock.New()),

		middleware.NewAuthorize,
		wire.Bind(new(middleware.RevokeChecker), new(*cache.AuthStorage)),

		server.NewHub,
		wire.Bind(new(service.Pusher), new(*socket.Hub)),
		server.NewGinEngine,

		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Auth), "*"),
		wire.Struct(new(handler.User), "*"),
		wire.Struct(new(handler.Follow), "*"),
		wire.Struct(new(handler.Post), "*"),
		wire.Struct(new(handler.Feed), "*"),
		wire.Struct(new(handler.Story), "*"),
		wire.Struct(new(handler.Notification), "*"),
		wire.Struct(new(handler.Media), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil, nil
}
