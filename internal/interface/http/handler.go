package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/aerosense/internal/domain/auth"
	"github.com/yanqian/aerosense/internal/domain/ecoaction"
	"github.com/yanqian/aerosense/internal/domain/environment"
	"github.com/yanqian/aerosense/internal/domain/healthrisk"
	"github.com/yanqian/aerosense/internal/domain/preferences"
	"github.com/yanqian/aerosense/internal/domain/report"
	"github.com/yanqian/aerosense/internal/domain/simulation"
	"github.com/yanqian/aerosense/internal/infra/config"
)

// ReportService is the slice of the report domain the transport needs.
type ReportService interface {
	Export(ctx context.Context, userID int64, req report.ExportRequest) (report.Report, error)
	Get(ctx context.Context, userID int64, id uuid.UUID) (report.Report, error)
	Download(ctx context.Context, userID int64, id uuid.UUID) (report.Download, io.ReadCloser, error)
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc       auth.Service
	envSvc        environment.Service
	riskSvc       healthrisk.Service
	simSvc        simulation.Service
	prefSvc       preferences.Service
	ecoSvc        ecoaction.Service
	reportSvc     ReportService
	loginRedirect string
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	cfg *config.Config,
	authSvc auth.Service,
	envSvc environment.Service,
	riskSvc healthrisk.Service,
	simSvc simulation.Service,
	prefSvc preferences.Service,
	ecoSvc ecoaction.Service,
	reportSvc ReportService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:       authSvc,
		envSvc:        envSvc,
		riskSvc:       riskSvc,
		simSvc:        simSvc,
		prefSvc:       prefSvc,
		ecoSvc:        ecoSvc,
		reportSvc:     reportSvc,
		loginRedirect: strings.TrimSpace(cfg.Auth.Google.PostLoginRedirectURL),
		logger:        logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "aerosense"})
}

// bindJSON decodes the body and aborts with invalid_request on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", key+" must be an integer", err))
		return 0, false
	}
	return v, true
}

func queryFloat(c *gin.Context, key string) (float64, bool, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", key+" must be a number", err))
		return 0, false, false
	}
	return v, true, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
