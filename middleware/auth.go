package middleware

import (
	"Bingo/config"
	"Bingo/pkg/context"
	"Bingo/pkg/jwt"
	"Bingo/pkg/log"
	"Bingo/pkg/response"
	stdctx "context"
	"net/http"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 剩余有效期小于该值时下发新 token
const refreshBuffer = 24 * time.Hour

// RevokeChecker 账号删除后吊销已签发的 token
type RevokeChecker interface {
	IsRevoked(ctx stdctx.Context, uid uint64, issuedAt time.Time) (bool, error)
}

// Authorize 登录校验中间件
type Authorize gin.HandlerFunc

func NewAuthorize(conf *config.Config, revoked RevokeChecker, clk clock.Clock) Authorize {
	return Authorize(Auth([]byte(conf.Jwt.Secret), conf.Jwt.AccessTTL, revoked, clk))
}

func Auth(secret []byte, ttl time.Duration, revoked RevokeChecker, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearer(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TokenTypeAccess, tokenStr, clk.Now)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "登录已失效")
			return
		}
		if revoked != nil && claims.IssuedAt != nil {
			gone, err := revoked.IsRevoked(c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
			if err != nil {
				log.L.Error("check revoked token", zap.Uint64("user_id", claims.UserID), zap.Error(err))
				response.Abort(c, http.StatusServiceUnavailable, "服务暂不可用")
				return
			}
			if gone {
				response.Abort(c, http.StatusUnauthorized, "账号已注销")
				return
			}
		}
		if jwt.ShouldRefresh(claims, clk.Now(), refreshBuffer) {
			if newToken, err := jwt.GenerateToken(secret, claims.UserID, jwt.TokenTypeAccess, clk.Now(), ttl); err == nil {
				c.Header("X-New-Access-Token", newToken)
			}
		}
		c.Set(context.CtxUserID, claims.UserID)

		c.Next()
	}
}

// bearer Authorization 头，websocket 握手时允许 ?token=
func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
