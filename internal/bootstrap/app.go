package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/aerosense/internal/domain/auth"
	"github.com/yanqian/aerosense/internal/domain/report"
	"github.com/yanqian/aerosense/internal/infra/queue"
)

// App encapsulates the HTTP server lifecycle and the report worker.
type App struct {
	logger  *slog.Logger
	server  *http.Server
	authSvc auth.Service
	reports *report.Service
	jobs    queue.HandlerQueue
}

// NewApp is used by Wire to build the runnable app.
func NewApp(logger *slog.Logger, server *http.Server, authSvc auth.Service, reports *report.Service, jobs queue.HandlerQueue) *App {
	return &App{
		logger:  logger.With("component", "bootstrap"),
		server:  server,
		authSvc: authSvc,
		reports: reports,
		jobs:    jobs,
	}
}

const shutdownGrace = 10 * time.Second

// Run seeds the default admin, attaches the report worker, then serves HTTP
// until ctx ends or the listener fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.authSvc.EnsureDefaultAdmin(ctx); err != nil {
		a.logger.Error("default admin bootstrap failed", "error", err)
	}
	a.jobs.SetHandler(a.reports.HandleJob)

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.server.Addr)
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", "grace", shutdownGrace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}
