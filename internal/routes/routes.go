package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
)

type Deps struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics

	Public handlers.PublicDeps
	Health map[string]handlers.Pinger

	// AuditLogs is nil unless audit events go to the database.
	AuditLogs handlers.AuditLogLister
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middleware.RequestLogger(log))

	if cfg.MetricsEnabled && deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(deps.Health)

	public := deps.Public
	public.Log = log
	publicHandler := handlers.NewPublicHandler(public)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	// ======================================================
	// 🩺 HEALTH
	// ======================================================
	r.GET("/health", healthHandler.Live)
	r.GET("/health/ready", healthHandler.Ready)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.Middleware(log))
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/availability", publicHandler.Availability)

			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
			publicAPI.POST("/appointments/cancel", publicHandler.CancelAppointment)
			publicAPI.GET("/appointments/summary", publicHandler.Summary)
		}

		// ------------------------------
		// 🔐 ADMIN
		// ------------------------------
		if cfg.AdminEnabled() && deps.AuditLogs != nil {
			auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditLogs, public.Location, log)

			admin := api.Group("/admin")
			admin.Use(gin.BasicAuth(gin.Accounts{cfg.AdminUser: cfg.AdminPassword}))
			{
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
