package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/preferences"
)

// GetSettings returns the caller's settings, defaults included.
func (h *Handler) GetSettings(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	settings, err := h.prefSvc.GetSettings(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings applies a partial settings update.
func (h *Handler) UpdateSettings(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	var req preferences.SettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.prefSvc.UpdateSettings(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// AddFavorite saves a favorite location.
func (h *Handler) AddFavorite(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	var req preferences.FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}
	fav, err := h.prefSvc.AddFavorite(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// ListFavorites returns the caller's favorite locations.
func (h *Handler) ListFavorites(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	favs, err := h.prefSvc.ListFavorites(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favs})
}

func (h *Handler) DeleteFavorite(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.prefSvc.DeleteFavorite(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
