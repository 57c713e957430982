package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewAccount,
	NewUsers,
	NewUserFollowDAO,
	NewPostDAO,
	NewPostLikeDAO,
	NewComment,
	NewStoryDAO,
	NewNotificationDAO,
	NewImage,
)
