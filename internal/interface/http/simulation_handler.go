package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/simulation"
)

// PredictScenario estimates AQI for a policy scenario without saving it.
func (h *Handler) PredictScenario(c *gin.Context) {
	var scenario simulation.Scenario
	if !bindJSON(c, &scenario) {
		return
	}
	prediction, err := h.simSvc.Predict(c.Request.Context(), scenario)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}

// SaveSimulation stores a named scenario for the caller.
func (h *Handler) SaveSimulation(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	var req simulation.SaveRequest
	if !bindJSON(c, &req) {
		return
	}
	saved, err := h.simSvc.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListSimulations returns the caller's saved scenarios.
func (h *Handler) ListSimulations(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.simSvc.List(c.Request.Context(), claims.UserID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"simulations": items})
}

// DeleteSimulation removes one of the caller's scenarios.
func (h *Handler) DeleteSimulation(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.simSvc.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
