package service

import (
	"Bingo/config"
	"Bingo/dao"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/log"
	"Bingo/pkg/mq"
	"Bingo/pkg/utils"
	"Bingo/types"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const (
	usernameMinLen = 3
	// 停用超过 30 个整天后删除账号
	deactivationTTLDays = 30
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidUsername 只做格式校验，不查库
func ValidUsername(username string) bool {
	return len(username) >= usernameMinLen && usernamePattern.MatchString(username)
}

// DeactivationExpired now - deactivatedAt 的整天数大于 30
func DeactivationExpired(deactivatedAt, now time.Time) bool {
	days := int64(now.Sub(deactivatedAt) / (24 * time.Hour))
	return days > deactivationTTLDays
}

// DeactivationCutoff 停用时间早于等于该时刻的账号已过期
func DeactivationCutoff(now time.Time) time.Time {
	return now.Add(-(deactivationTTLDays + 1) * 24 * time.Hour)
}

var _ IProfileService = (*ProfileService)(nil)

type IProfileService interface {
	CreateProfile(ctx context.Context, profile *models.Users) error
	// EnsureProfile 登录时资料缺失则补一份默认资料
	EnsureProfile(ctx context.Context, userID uint64, email string) (*models.Users, error)
	GetProfile(ctx context.Context, userID uint64) (*models.Users, error)
	// CheckUsernameAvailability exceptID 非 0 时，只有自己占用视为可用
	CheckUsernameAvailability(ctx context.Context, username string, exceptID uint64) (bool, error)
	UpdateProfile(ctx context.Context, userID uint64, patch *types.ProfilePatch) (*models.Users, error)
	Deactivate(ctx context.Context, userID uint64) error
	Reactivate(ctx context.Context, userID uint64) error
	CheckExpiredDeactivation(ctx context.Context, userID uint64) (bool, error)
	Search(ctx context.Context, prefix string, limit int) ([]*models.Users, error)
}

type ProfileService struct {
	Config   *config.Config
	UserDAO  *dao.Users
	Accounts IAccountService
	Broker   mq.Broker
	Clock    clock.Clock
}

func (s *ProfileService) CreateProfile(ctx context.Context, profile *models.Users) error {
	if !ValidUsername(profile.Username) {
		return bizerr.InvalidArgument("用户名至少 3 位，只能包含字母、数字、. _ -")
	}
	taken, err := s.UserDAO.IsUsernameTaken(ctx, profile.Username, profile.ID)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	if taken {
		return bizerr.Conflict("用户名已被占用")
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.Clock.Now().UTC()
	}
	profile.UpdatedAt = profile.CreatedAt
	if err := s.UserDAO.Create(ctx, profile); err != nil {
		if dao.IsDuplicated(err) {
			return bizerr.Conflict("用户名已被占用")
		}
		return bizerr.Unavailable(err)
	}
	return nil
}

func (s *ProfileService) EnsureProfile(ctx context.Context, userID uint64, email string) (*models.Users, error) {
	u, err := s.UserDAO.FindById(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !dao.IsNotFound(err) {
		return nil, bizerr.Unavailable(err)
	}

	avatar := s.Config.Auth.DefaultAvatar
	profile := &models.Users{
		ID:              userID,
		Email:           email,
		Username:        "user_" + utils.GenHashID(s.Config.Auth.HashSalt, userID),
		FullName:        "User",
		ProfileImageURL: &avatar,
	}
	if err := s.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	log.L.Info("default profile created", zap.Uint64("user_id", userID))
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint64) (*models.Users, error) {
	u, err := s.UserDAO.FindById(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("用户不存在")
		}
		return nil, bizerr.Unavailable(err)
	}
	return u, nil
}

func (s *ProfileService) CheckUsernameAvailability(ctx context.Context, username string, exceptID uint64) (bool, error) {
	if !ValidUsername(username) {
		return false, bizerr.InvalidArgument("用户名至少 3 位，只能包含字母、数字、. _ -")
	}
	taken, err := s.UserDAO.IsUsernameTaken(ctx, username, exceptID)
	if err != nil {
		return false, bizerr.Unavailable(err)
	}
	return !taken, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint64, patch *types.ProfilePatch) (*models.Users, error) {
	before, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch == nil || patch.Empty() {
		return before, nil
	}

	updates := make(map[string]any)
	if patch.Username != nil && *patch.Username != before.Username {
		ok, err := s.CheckUsernameAvailability(ctx, *patch.Username, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, bizerr.Conflict("用户名已被占用")
		}
		updates["username"] = *patch.Username
	}
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, bizerr.InvalidArgument("昵称不能为空")
		}
		updates["full_name"] = name
	}
	switch {
	case patch.ClearBio:
		updates["bio"] = nil
	case patch.Bio != nil:
		updates["bio"] = *patch.Bio
	}
	switch {
	case patch.ClearProfileImage:
		updates["profile_image_url"] = nil
	case patch.ProfileImageURL != nil:
		updates["profile_image_url"] = *patch.ProfileImageURL
	}
	if len(updates) == 0 {
		return before, nil
	}
	updates["updated_at"] = s.Clock.Now().UTC()

	if err := s.UserDAO.Update(ctx, userID, updates); err != nil {
		if dao.IsDuplicated(err) {
			return nil, bizerr.Conflict("用户名已被占用")
		}
		if dao.IsNotFound(err) {
			return nil, bizerr.NotFound("用户不存在")
		}
		return nil, bizerr.Unavailable(err)
	}
	after, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName(after) != displayName(before) || !sameString(after.ProfileImageURL, before.ProfileImageURL) {
		s.publishProfileUpdated(ctx, after)
	}
	return after, nil
}

// publishProfileUpdated 回刷作者信息，失败只记日志
func (s *ProfileService) publishProfileUpdated(ctx context.Context, u *models.Users) {
	evt := mq.ProfileUpdated{UserID: u.ID, Name: displayName(u), Avatar: u.ProfileImageURL}
	if err := mq.PublishJSON(ctx, s.Broker, mq.TopicProfileUpdated, evt); err != nil {
		log.L.Error("publish profile updated", zap.Uint64("user_id", u.ID), zap.Error(err))
	}
}

func (s *ProfileService) Deactivate(ctx context.Context, userID uint64) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	// 重复停用不刷新停用时间
	if u.IsDeactivated {
		return nil
	}
	return s.setDeactivated(ctx, userID, true)
}

func (s *ProfileService) Reactivate(ctx context.Context, userID uint64) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.setDeactivated(ctx, userID, false)
}

func (s *ProfileService) setDeactivated(ctx context.Context, userID uint64, deactivated bool) error {
	if err := s.UserDAO.SetDeactivated(ctx, userID, deactivated, s.Clock.Now().UTC()); err != nil {
		if dao.IsNotFound(err) {
			return bizerr.NotFound("用户不存在")
		}
		return bizerr.Unavailable(err)
	}
	return nil
}

func (s *ProfileService) CheckExpiredDeactivation(ctx context.Context, userID uint64) (bool, error) {
	return s.Accounts.CheckExpiredDeactivation(ctx, userID)
}

func (s *ProfileService) Search(ctx context.Context, prefix string, limit int) ([]*models.Users, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []*models.Users{}, nil
	}
	users, err := s.UserDAO.SearchByPrefix(ctx, prefix, types.ClampPageSize(limit))
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	return users, nil
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
