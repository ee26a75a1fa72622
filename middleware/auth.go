package middleware

import (
	"context"
	"net/http"
	"strings"

	"myanmar-travel/models"
	"myanmar-travel/services"
	"myanmar-travel/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// TokenParser resolves a bearer token to the caller's current identity.
type TokenParser interface {
	Authorize(ctx context.Context, token string) (*services.Claims, error)
}

func bearer(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate reads the Bearer token when present. With required set, a
// missing or invalid token aborts with 401.
func Authenticate(p TokenParser, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			if required {
				utils.JSONCodedError(c, http.StatusUnauthorized, "error.unauthorized", "login required")
				return
			}
			c.Next()
			return
		}
		claims, err := p.Authorize(c.Request.Context(), token)
		if err != nil {
			if required {
				utils.JSONCodedError(c, http.StatusUnauthorized, "error.invalidToken", "token is invalid or expired")
				return
			}
			c.Next()
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			utils.JSONCodedError(c, http.StatusForbidden, "error.forbidden", "admin access required")
			return
		}
		c.Next()
	}
}

// UserID is zero for anonymous requests.
func UserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(ctxRole) == models.RoleAdmin
}
