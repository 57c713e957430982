package types

import "Bingo/models"

type NotificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	NextCursor    uint64                 `json:"next_cursor,omitempty"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
