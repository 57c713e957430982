package service

import (
	"Bingo/config"
	"Bingo/dao"
	"Bingo/dao/cache"
	"Bingo/models"
	"Bingo/pkg/bizerr"
	"Bingo/pkg/jwt"
	"Bingo/pkg/log"
	"Bingo/pkg/snowflake"
	"Bingo/pkg/utils"
	"Bingo/types"
	"context"
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const verifyCodeLen = 6

var _ IAuthService = (*AuthService)(nil)

type IAuthService interface {
	Signup(ctx context.Context, req *types.SignupRequest) (*models.Users, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	// Login 需邮箱已验证；资料缺失时补默认资料；停用超期的账号在此删除
	Login(ctx context.Context, email, password string) (*types.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type AuthService struct {
	Config      *config.Config
	AccountDAO  *dao.Account
	AuthStorage *cache.AuthStorage
	Profiles    IProfileService
	Mailer      Mailer
	Clock       clock.Clock
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req *types.SignupRequest) (*models.Users, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, bizerr.InvalidArgument("邮箱格式错误")
	}
	if len(req.Password) < 6 {
		return nil, bizerr.InvalidArgument("密码至少 6 位")
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, bizerr.InvalidArgument("昵称不能为空")
	}
	available, err := s.Profiles.CheckUsernameAvailability(ctx, req.Username, 0)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, bizerr.Conflict("用户名已被占用")
	}
	exist, err := s.AccountDAO.IsExist(ctx, "email = ?", email)
	if err != nil {
		return nil, bizerr.Unavailable(err)
	}
	if exist {
		return nil, bizerr.Conflict("邮箱已注册")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.Config.Auth.BcryptCost)
	if err != nil {
		return nil, bizerr.Wrap(bizerr.KindInternal, err, "密码加密失败")
	}
	now := s.Clock.Now().UTC()
	id := snowflake.GenUserID()
	account := &models.Account{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	avatar := s.Config.Auth.DefaultAvatar
	profile := &models.Users{
		ID:              id,
		Email:           email,
		Username:        req.Username,
		FullName:        fullName,
		ProfileImageURL: &avatar,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.AccountDAO.CreateWithProfile(ctx, account, profile); err != nil {
		if dao.IsDuplicated(err) {
			return nil, bizerr.Conflict("邮箱或用户名已被占用")
		}
		return nil, bizerr.Unavailable(err)
	}

	if err := s.sendVerifyCode(ctx, email); err != nil {
		// 账号已创建，可通过重发验证码补救
		log.L.Warn("send verify code", zap.String("email", email), zap.Error(err))
	}
	return profile, nil
}

func (s *AuthService) sendVerifyCode(ctx context.Context, email string) error {
	code, err := utils.RandDigits(verifyCodeLen)
	if err != nil {
		return err
	}
	if err := s.AuthStorage.SetVerifyCode(ctx, email, code, s.Config.Auth.VerifyCodeTTL); err != nil {
		return err
	}
	return s.Mailer.Send(ctx, email, "验证你的邮箱", fmt.Sprintf("你的验证码是 %s", code))
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	account, err := s.AccountDAO.FindByEmail(ctx, email)
	if err != nil {
		if dao.IsNotFound(err) {
			return bizerr.NotFound("账号不存在")
		}
		return bizerr.Unavailable(err)
	}
	if account.EmailVerified {
		return nil
	}
	ok, err := s.AuthStorage.CheckVerifyCode(ctx, email, code)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	if !ok {
		return bizerr.InvalidArgument("验证码错误或已过期")
	}
	if err := s.AccountDAO.SetVerified(ctx, account.ID); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	account, err := s.AccountDAO.FindByEmail(ctx, email)
	if err != nil {
		if dao.IsNotFound(err) {
			return bizerr.NotFound("账号不存在")
		}
		return bizerr.Unavailable(err)
	}
	if account.EmailVerified {
		return bizerr.InvalidArgument("邮箱已验证")
	}
	if err := s.sendVerifyCode(ctx, email); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	email = normalizeEmail(email)
	account, err := s.AccountDAO.FindByEmail(ctx, email)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, bizerr.Unauthenticated("邮箱或密码错误")
		}
		return nil, bizerr.Unavailable(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, bizerr.Unauthenticated("邮箱或密码错误")
	}
	if !account.EmailVerified {
		return nil, bizerr.Unauthenticated("邮箱未验证")
	}

	if _, err := s.Profiles.EnsureProfile(ctx, account.ID, account.Email); err != nil {
		return nil, err
	}
	gone, err := s.Profiles.CheckExpiredDeactivation(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if gone {
		return nil, bizerr.NotFound("账号停用超过 30 天，已被删除")
	}
	profile, err := s.Profiles.GetProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken([]byte(s.Config.Jwt.Secret), account.ID, jwt.TokenTypeAccess, s.Clock.Now(), s.Config.Jwt.AccessTTL)
	if err != nil {
		return nil, bizerr.Wrap(bizerr.KindInternal, err, "生成 token 失败")
	}
	return &types.LoginResponse{Token: token, Profile: profile}, nil
}

// ForgotPassword 邮箱不存在时同样返回成功
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	account, err := s.AccountDAO.FindByEmail(ctx, email)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil
		}
		return bizerr.Unavailable(err)
	}
	token := uuid.NewString()
	if err := s.AuthStorage.SetResetToken(ctx, token, account.ID, s.Config.Auth.ResetTokenTTL); err != nil {
		return bizerr.Unavailable(err)
	}
	if err := s.Mailer.Send(ctx, email, "重置密码", fmt.Sprintf("重置令牌: %s", token)); err != nil {
		return bizerr.Unavailable(err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < 6 {
		return bizerr.InvalidArgument("密码至少 6 位")
	}
	accountID, ok, err := s.AuthStorage.ConsumeResetToken(ctx, token)
	if err != nil {
		return bizerr.Unavailable(err)
	}
	if !ok {
		return bizerr.InvalidArgument("重置令牌无效或已过期")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.Config.Auth.BcryptCost)
	if err != nil {
		return bizerr.Wrap(bizerr.KindInternal, err, "密码加密失败")
	}
	if err := s.AccountDAO.UpdatePassword(ctx, accountID, string(hash)); err != nil {
		if dao.IsNotFound(err) {
			return bizerr.NotFound("账号不存在")
		}
		return bizerr.Unavailable(err)
	}
	return nil
}
