package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/auth"
)

// AdminLogin authenticates an administrator by username.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req auth.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.authSvc.AdminLogin(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAdmin provisions another administrator.
func (h *Handler) CreateAdmin(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	var req auth.CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.authSvc.CreateAdmin(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers returns every account.
func (h *Handler) ListUsers(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	users, err := h.authSvc.ListUsers(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// PlatformStats summarizes eco action impact across the platform.
func (h *Handler) PlatformStats(c *gin.Context) {
	stats, err := h.ecoSvc.Stats(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
