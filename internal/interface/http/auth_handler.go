package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/auth"
)

// Register creates a regular user account.
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login exchanges email and password for a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh rotates a refresh token into a new token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile returns the caller's account.
func (h *Handler) Profile(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.authSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout revokes any linked Google grant. Access tokens simply expire.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims.UserID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GoogleLogin starts the PKCE authorization code flow.
func (h *Handler) GoogleLogin(c *gin.Context) {
	state, verifier, challenge, err := auth.NewOAuthState()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_error", "failed to start oauth flow", err))
		return
	}
	authURL, err := h.authSvc.GoogleAuthURL(c.Request.Context(), state, challenge)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	rememberPendingLogin(c, state, verifier)
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback completes the flow and either redirects to the dashboard or returns tokens.
func (h *Handler) GoogleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		writeOAuthCookie(c, "", -1)
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "oauth_denied", errParam, nil))
		return
	}
	verifier, ok := takePendingLogin(c, c.Query("state"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "oauth state mismatch or expired", nil))
		return
	}
	code := c.Query("code")
	if code == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing authorization code", nil))
		return
	}
	resp, err := h.authSvc.GoogleCallback(c.Request.Context(), code, verifier)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if h.loginRedirect == "" {
		c.JSON(http.StatusOK, resp)
		return
	}
	fragment := url.Values{}
	fragment.Set("token", resp.Token)
	fragment.Set("refreshToken", resp.RefreshToken)
	c.Redirect(http.StatusFound, h.loginRedirect+"#"+fragment.Encode())
}
