package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Ocelots/config"
	"github.com/lshigami/Ocelots/internal/auth"
	"github.com/lshigami/Ocelots/internal/dto"
)

// AuthCookieName is the session cookie set on login. A Bearer header is
// accepted as an alternative for non-browser clients.
const AuthCookieName = "auth_token"

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

// AuthRequired validates the JWT from the session cookie or Authorization
// header and injects the authenticated user id into the request context.
func AuthRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
			return
		}

		claims, err := auth.ParseToken(cfg.Auth.JWTSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired session"})
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxUserRoleKey, claims.Role)
		c.Next()
	}
}

// InstructorOnly gates the admin surface. Must run after AuthRequired.
func InstructorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ctxUserRoleKey); role != "instructor" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Instructor access required"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id injected by AuthRequired.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
