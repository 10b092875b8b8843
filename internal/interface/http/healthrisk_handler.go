package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/domain/healthrisk"
)

// AssessRisk builds the full personalized report for a city.
func (h *Handler) AssessRisk(c *gin.Context) {
	var req healthrisk.AssessRequest
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.riskSvc.Assess(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ScoreRisk scores an explicit AQI and profile.
func (h *Handler) ScoreRisk(c *gin.Context) {
	var req healthrisk.ScoreRequest
	if !bindJSON(c, &req) {
		return
	}
	risk := h.riskSvc.Score(c.Request.Context(), req)
	c.JSON(http.StatusOK, gin.H{
		"risk":       risk,
		"activities": healthrisk.DeriveActivityGuides(risk),
	})
}

// SafeWindows segments a supplied forecast.
func (h *Handler) SafeWindows(c *gin.Context) {
	var req healthrisk.WindowsRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"windows": h.riskSvc.Windows(c.Request.Context(), req)})
}
