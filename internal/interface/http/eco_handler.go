package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/ecoaction"
)

// ListEcoActions returns the action catalog.
func (h *Handler) ListEcoActions(c *gin.Context) {
	actions, err := h.ecoSvc.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

// CompleteEcoAction records a completion; repeats report already_done.
func (h *Handler) CompleteEcoAction(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	var req ecoaction.CompleteRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.ecoSvc.Complete(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// EcoHistory returns the caller's completions.
func (h *Handler) EcoHistory(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := h.ecoSvc.History(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// EcoLeaderboard ranks users by CO2 saved; ?limit= is clamped by the service.
func (h *Handler) EcoLeaderboard(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	entries, err := h.ecoSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
