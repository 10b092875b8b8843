package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/auth"
	apperrors "github.com/yanqian/aerosense/pkg/errors"
)

const authClaimsKey = "aerosense.claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// currentUser returns the caller's claims, aborting with 401 when the route
// was reached without authMiddleware having run.
func currentUser(c *gin.Context) (auth.Claims, bool) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "missing token", nil))
		return auth.Claims{}, false
	}
	return claims, true
}
