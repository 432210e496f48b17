package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/util"
)

type AuthMiddleware struct {
	jwt *util.JWTManager
}

func NewAuthMiddleware(jwt *util.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate validates the Bearer token and stores the caller's
// identity on the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwt.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) {
				respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Token has expired")
				c.Abort()
				return
			}
			respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("is_admin", claims.IsAdmin)

		c.Next()
	}
}

// RequireAdmin runs after Authenticate and rejects non-admin callers.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists {
			respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		admin, ok := isAdmin.(bool)
		if !ok || !admin {
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Admin privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// currentUser reads the identity set by Authenticate. The bool is false
// when the middleware did not run on this route.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}

	return userID, true
}

func isAdmin(c *gin.Context) bool {
	val, exists := c.Get("is_admin")
	if !exists {
		return false
	}

	admin, ok := val.(bool)
	return ok && admin
}
