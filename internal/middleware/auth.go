package middleware

import (
	"github.com/Anannyachuli/Product-Portfolio/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionHeader 会话令牌头，客户端需原样回传
	SessionHeader = "X-Chat-Session"
	// QuotaKey 上下文中的配额键
	QuotaKey = "quota_key"
)

// SessionMiddleware 会话中间件
// 有效令牌使用其会话 ID 作为配额键；否则按客户端 IP 计数并签发新令牌
func SessionMiddleware(svc *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.QuotaEnabled {
			c.Next()
			return
		}

		if token := c.GetHeader(SessionHeader); token != "" {
			if sid, err := svc.Auth.ParseSessionToken(token); err == nil {
				c.Set(QuotaKey, "session:"+sid)
				c.Header(SessionHeader, token)
				c.Next()
				return
			}
		}

		c.Set(QuotaKey, "ip:"+c.ClientIP())
		token, _, err := svc.Auth.IssueSessionToken()
		if err != nil {
			svc.Logger.Warn("failed to issue session token", zap.Error(err))
		} else {
			c.Header(SessionHeader, token)
		}
		c.Next()
	}
}
