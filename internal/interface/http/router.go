package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/aerosense/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(newEngine(cfg, handler), cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func newEngine(cfg *config.Config, handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	requireAuth := authMiddleware(handler.authSvc)

	api := router.Group("/api/v1")
	{
		api.GET("/health", handler.Health)
		api.GET("/locations", handler.Locations)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.GET("/google/login", handler.GoogleLogin)
		authGroup.GET("/google/callback", handler.GoogleCallback)
		authGroup.GET("/profile", requireAuth, handler.Profile)
		authGroup.POST("/logout", requireAuth, handler.Logout)

		api.POST("/admin/login", handler.AdminLogin)
		admin := api.Group("/admin", requireAuth, adminMiddleware())
		admin.POST("/admins", handler.CreateAdmin)
		admin.GET("/users", handler.ListUsers)
		admin.GET("/stats", handler.PlatformStats)

		env := api.Group("/environment")
		env.GET("/current", handler.CurrentConditions)
		env.GET("/forecast", handler.Forecast)
		env.GET("/history", handler.History)
		env.GET("/annual", handler.Annual)
		env.GET("/hubs", handler.Hubs)
		env.GET("/carbon", handler.CarbonTrend)
		env.GET("/live", handler.Live)
		env.GET("/tips", handler.Tips)

		risk := api.Group("/health-risk")
		risk.POST("/assess", handler.AssessRisk)
		risk.POST("/score", handler.ScoreRisk)
		risk.POST("/windows", handler.SafeWindows)

		api.POST("/simulations/predict", handler.PredictScenario)
		sims := api.Group("/simulations", requireAuth)
		sims.GET("", handler.ListSimulations)
		sims.POST("", handler.SaveSimulation)
		sims.DELETE("/:id", handler.DeleteSimulation)

		api.GET("/settings", requireAuth, handler.GetSettings)
		api.PUT("/settings", requireAuth, handler.UpdateSettings)
		favs := api.Group("/favorites", requireAuth)
		favs.GET("", handler.ListFavorites)
		favs.POST("", handler.AddFavorite)
		favs.DELETE("/:id", handler.DeleteFavorite)

		eco := api.Group("/eco-actions")
		eco.GET("", handler.ListEcoActions)
		eco.GET("/leaderboard", handler.EcoLeaderboard)
		eco.POST("/complete", requireAuth, handler.CompleteEcoAction)
		eco.GET("/history", requireAuth, handler.EcoHistory)

		reports := api.Group("/reports", requireAuth)
		reports.POST("", handler.ExportReport)
		reports.GET("/:id", handler.GetReport)
		reports.GET("/:id/download", handler.DownloadReport)
	}

	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
