package types

import "Bingo/models"

// ProfilePatch 资料修改，nil 表示不修改
// Bio / ProfileImageURL 显式传 null 时对应 Clear 为 true
type ProfilePatch struct {
	Username          *string
	FullName          *string
	Bio               *string
	ClearBio          bool
	ProfileImageURL   *string
	ClearProfileImage bool
}

// Empty 没有任何字段需要修改
func (p *ProfilePatch) Empty() bool {
	return p.Username == nil && p.FullName == nil && p.Bio == nil && !p.ClearBio &&
		p.ProfileImageURL == nil && !p.ClearProfileImage
}

type AvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

type UserListResponse struct {
	Users []*models.Users `json:"users"`
}
