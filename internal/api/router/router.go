package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"print-timesheet/config"
	"print-timesheet/internal/api/handler"
	"print-timesheet/internal/api/middleware"
	"print-timesheet/internal/model"
	"print-timesheet/pkg/jwt"
	"print-timesheet/pkg/redis"
)

// Setup builds the gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	// Request bodies must match their DTO exactly.
	binding.EnableDecoderDisallowUnknownFields = true

	r := gin.New()

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ── Public ──
		limited := middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute)
		api.POST("/login", limited, h.Auth.Login)
		api.POST("/register", limited, h.Auth.Register)
		api.POST("/refresh", h.Auth.Refresh)

		// ── Authenticated ──
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		admin := middleware.RoleAuth(model.RoleAdmin)
		{
			authorized.POST("/logout", h.Auth.Logout)
			authorized.GET("/me", h.Auth.Me)
			authorized.GET("/time-slots", h.TimeSlot.ListTimeSlots)

			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.ListEmployees)
				employees.POST("", admin, h.Employee.UpsertEmployee)
				employees.DELETE("/:id", admin, h.Employee.DeleteEmployee)
			}

			// Per-cell ownership is checked by the service role gate.
			activities := authorized.Group("/activities")
			{
				activities.GET("", h.Activity.GetGrid)
				activities.POST("", h.Activity.UpsertActivity)
				activities.DELETE("", h.Activity.DeleteActivity)
			}

			deleted := authorized.Group("/deleted-activities", admin)
			{
				deleted.GET("", h.Recycle.ListDeleted)
				deleted.POST("/:id/restore", h.Recycle.Restore)
			}

			activityLog := authorized.Group("/activity-log")
			{
				activityLog.GET("", admin, h.ActivityLog.Query)
				activityLog.POST("", h.ActivityLog.Append)
				activityLog.DELETE("", admin, h.ActivityLog.Clear)
			}

			export := authorized.Group("/export")
			{
				export.GET("", admin, h.Export.ExportGrid)
				export.GET("/calendar", h.Export.ExportCalendar)
			}

			users := authorized.Group("/users", admin)
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
			}
		}
	}

	return r
}
