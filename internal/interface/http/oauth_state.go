package http

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	oauthCookieName = "aerosense_oauth"
	oauthCookiePath = "/api/v1/auth/google"
	oauthCookieTTL  = 5 * time.Minute
)

// pendingLogin is what the callback needs to finish a PKCE exchange.
type pendingLogin struct {
	State    string `json:"s"`
	Verifier string `json:"v"`
	IssuedAt int64  `json:"t"`
}

func rememberPendingLogin(c *gin.Context, state, verifier string) {
	data, _ := json.Marshal(pendingLogin{State: state, Verifier: verifier, IssuedAt: time.Now().Unix()})
	writeOAuthCookie(c, base64.RawURLEncoding.EncodeToString(data), int(oauthCookieTTL.Seconds()))
}

// takePendingLogin consumes the cookie and returns the verifier when state matches.
func takePendingLogin(c *gin.Context, state string) (string, bool) {
	raw, err := c.Cookie(oauthCookieName)
	writeOAuthCookie(c, "", -1)
	if err != nil || raw == "" || state == "" {
		return "", false
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", false
	}
	var pending pendingLogin
	if err := json.Unmarshal(data, &pending); err != nil || pending.Verifier == "" {
		return "", false
	}
	if time.Since(time.Unix(pending.IssuedAt, 0)) > oauthCookieTTL {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(pending.State), []byte(state)) != 1 {
		return "", false
	}
	return pending.Verifier, true
}

func writeOAuthCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthCookieName, value, maxAge, oauthCookiePath, "", c.Request.TLS != nil, true)
}
