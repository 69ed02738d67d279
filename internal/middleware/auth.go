package middleware

import (
	"strings"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer token，解析出的 Claims 存入上下文
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT validation failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// CurrentUserID 只能在 AuthMiddleware 之后使用
func CurrentUserID(c *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return 0, false
	}
	return claims.UserID, true
}
