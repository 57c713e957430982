package handler

import (
	"Bingo/pkg/context"
	"Bingo/pkg/response"
	"Bingo/service"
	"Bingo/types"

	"github.com/gin-gonic/gin"
)

type Auth struct {
	AuthService service.IAuthService
}

func (a *Auth) RegisterRouter(r gin.IRouter) {
	g := r.Group("/auth")
	g.POST("/signup", context.Wrap(a.Signup))
	g.POST("/verify", context.Wrap(a.VerifyEmail))
	g.POST("/verify/resend", context.Wrap(a.ResendVerification))
	g.POST("/login", context.Wrap(a.Login))
	g.POST("/password/forgot", context.Wrap(a.ForgotPassword))
	g.POST("/password/reset", context.Wrap(a.ResetPassword))
}

// Signup 注册，验证码通过邮件发送
func (a *Auth) Signup(c *gin.Context) error {
	var req types.SignupRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	profile, err := a.AuthService.Signup(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, profile)
	return nil
}

func (a *Auth) VerifyEmail(c *gin.Context) error {
	var req types.VerifyEmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := a.AuthService.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		return err
	}
	response.Success(c, gin.H{"verified": true})
	return nil
}

func (a *Auth) ResendVerification(c *gin.Context) error {
	var req types.EmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := a.AuthService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *Auth) Login(c *gin.Context) error {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := a.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// ForgotPassword 邮箱不存在时同样返回成功
func (a *Auth) ForgotPassword(c *gin.Context) error {
	var req types.EmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := a.AuthService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (a *Auth) ResetPassword(c *gin.Context) error {
	var req types.ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := a.AuthService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
