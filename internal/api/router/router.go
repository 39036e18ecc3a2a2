package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/api/handler"
	"shipyard-monitor/backend/internal/api/middleware"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/pkg/jwt"
	"shipyard-monitor/backend/pkg/redis"
)

const maxBodyBytes = 1 << 20

// Setup builds the Gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var blacklist middleware.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// journal
			authorized.GET("/shifts", h.Record.ListShifts)
			authorized.GET("/records", h.Record.ListRecords)
			authorized.POST("/records", h.Record.CreateRecord)

			authorized.GET("/dashboard", h.Dashboard.Get)

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Dismiss)
			}

			analytics := authorized.Group("/analytics", adminOnly)
			{
				analytics.GET("/financials", h.Analytics.Financials)
				analytics.POST("/report", h.Analytics.Report)
				analytics.POST("/report/export", h.Export.ExportReport)
			}

			export := authorized.Group("/export", adminOnly)
			{
				export.GET("/journal", h.Export.ExportJournal)
			}

			settings := authorized.Group("/settings", adminOnly)
			{
				settings.GET("", h.Settings.Get)
				settings.PUT("", h.Settings.Update)
				settings.POST("/test-alert", h.Settings.TestAlert)
			}

			users := authorized.Group("/users", adminOnly)
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
			}
		}
	}

	return r
}
