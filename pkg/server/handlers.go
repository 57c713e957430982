package server

import (
	"Bingo/handler"
)

type Handlers struct {
	Auth         *handler.Auth
	User         *handler.User
	Follow       *handler.Follow
	Post         *handler.Post
	Feed         *handler.Feed
	Story        *handler.Story
	Notification *handler.Notification
	Media        *handler.Media
}
