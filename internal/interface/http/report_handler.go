package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/aerosense/internal/domain/report"
)

// ExportReport schedules an annual CSV export.
func (h *Handler) ExportReport(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	var req report.ExportRequest
	if !bindJSON(c, &req) {
		return
	}
	rep, err := h.reportSvc.Export(c.Request.Context(), claims.UserID, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, rep)
}

// GetReport returns an export's status.
func (h *Handler) GetReport(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := reportID(c)
	if !ok {
		return
	}
	rep, err := h.reportSvc.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// DownloadReport streams a ready export as an attachment.
func (h *Handler) DownloadReport(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := reportID(c)
	if !ok {
		return
	}
	meta, body, err := h.reportSvc.Download(c.Request.Context(), claims.UserID, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	defer body.Close()

	header := c.Writer.Header()
	header.Set("Content-Type", meta.ContentType)
	header.Set("Content-Disposition", `attachment; filename="`+meta.Filename+`"`)
	if meta.Size > 0 {
		header.Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.Warn("report download interrupted", "report_id", id, "error", err)
	}
}

func reportID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid report id", err))
		return uuid.Nil, false
	}
	return id, true
}
