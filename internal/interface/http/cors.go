package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = "600"

// corsMiddleware echoes an allowed origin so the dashboard can call the API cross-site.
// Credentials are only allowed for an explicit origin, never for "*".
func corsMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := resolveOrigin(c.GetHeader("Origin"), allowed)
		headers := c.Writer.Header()
		headers.Set("Access-Control-Allow-Origin", origin)
		headers.Add("Vary", "Origin")
		headers.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		headers.Set("Access-Control-Expose-Headers", "Content-Disposition")
		if origin != "*" {
			headers.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			headers.Set("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func resolveOrigin(requestOrigin string, allowed []string) string {
	if len(allowed) == 0 {
		return "*"
	}
	for _, candidate := range allowed {
		switch {
		case candidate == "*":
			return "*"
		case requestOrigin != "" && strings.EqualFold(candidate, requestOrigin):
			return requestOrigin
		}
	}
	return allowed[0]
}
