package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/auth"
	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "missing or malformed authorization header", nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if apperrors.IsCode(err, "invalid_token") {
				abortWithError(c, NewHTTPError(http.StatusUnauthorized, "invalid_token", "invalid or expired token", err))
				return
			}
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_error", "token validation failed", err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// adminMiddleware must run after authMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := getClaims(c)
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "missing token", nil))
			return
		}
		if !claims.IsAdmin() {
			abortWithError(c, NewHTTPError(http.StatusForbidden, apperrors.CodeForbidden, "admin access required", nil))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
