package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/farm-irrigation-backend/config"
	"github.com/sharath018/farm-irrigation-backend/database"
	"github.com/sharath018/farm-irrigation-backend/internal/area"
	"github.com/sharath018/farm-irrigation-backend/internal/auditlog"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
	"github.com/sharath018/farm-irrigation-backend/internal/farm"
	"github.com/sharath018/farm-irrigation-backend/internal/notification"
	"github.com/sharath018/farm-irrigation-backend/internal/reports"
	"github.com/sharath018/farm-irrigation-backend/internal/watering"
	"github.com/sharath018/farm-irrigation-backend/middleware"
)

// Setup wires every repository, service and handler and mounts the
// versioned API. Notification delivery also needs the service outside
// the router, so it is returned to the caller.
func Setup(r *gin.Engine, cfg *config.Config) *notification.Service {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc, cfg)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// ========== Protected ==========
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)

	// ========== Areas ==========
	areaRepo := area.NewRepository(database.DB)
	areaSvc := area.NewService(areaRepo, authRepo, auditSvc)
	areaHandler := area.NewHandler(areaSvc)

	// ========== Farms ==========
	farmRepo := farm.NewRepository(database.DB)
	farmSvc := farm.NewService(farmRepo, authRepo, auditSvc)
	farmHandler := farm.NewHandler(farmSvc)

	// ========== Watering ==========
	wateringRepo := watering.NewRepository(database.DB)
	wateringSvc := watering.NewService(wateringRepo, farmRepo, authRepo, auditSvc)
	wateringHandler := watering.NewHandler(wateringSvc, cfg)

	// ========== Notifications ==========
	notifRepo := notification.NewRepository(database.DB)
	notifSvc := notification.NewService(notifRepo)
	notifHandler := notification.NewHandler(notifSvc)

	// ========== Reports ==========
	reportsRepo := reports.NewRepository(database.DB)
	reportsSvc := reports.NewService(reportsRepo, reports.NewReportExporter())
	reportsHandler := reports.NewHandler(reportsSvc)

	// Farms visible to both roles, scoped inside the service layer.
	farmRoutes := protected.Group("/farms")
	{
		farmRoutes.GET("", farmHandler.GetFarms)
		farmRoutes.GET("/survey-range", farmHandler.GetFarmsBySurveyRange)
		farmRoutes.GET("/:id", farmHandler.GetFarm)
		farmRoutes.POST("/request", farmHandler.SubmitFarmRequest)
		farmRoutes.POST("/:id/watering", wateringHandler.MarkWatering)
		farmRoutes.GET("/:id/watering", wateringHandler.GetWateringHistory)
	}

	notifRoutes := protected.Group("/notifications")
	{
		notifRoutes.GET("", notifHandler.GetNotifications)
		notifRoutes.GET("/unread-count", notifHandler.GetUnreadCount)
		notifRoutes.PATCH("/read-all", notifHandler.MarkAllNotificationsRead)
		notifRoutes.PATCH("/:id/read", notifHandler.MarkNotificationRead)
	}

	// ========== Admin ==========
	admin := protected.Group("/admin")
	admin.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		admin.POST("/areas", areaHandler.CreateArea)
		admin.GET("/areas", areaHandler.GetAreas)
		admin.POST("/areas/:id/assign", areaHandler.AssignEmployeeToArea)
		admin.GET("/areas/:id/stats", areaHandler.GetAreaStats)

		admin.POST("/employees", authHandler.CreateEmployee)
		admin.GET("/employees", authHandler.GetEmployees)

		admin.POST("/farms", farmHandler.CreateFarm)
		admin.GET("/farms/pending", farmHandler.GetPendingFarms)
		admin.PATCH("/farms/:id/approve", farmHandler.ApproveFarm)
		admin.PATCH("/farms/:id/reject", farmHandler.RejectFarm)
		admin.PATCH("/farms/:id/location", farmHandler.UpdateFarmLocation)
		admin.POST("/farms/assign", farmHandler.AssignEmployeeToFarms)

		admin.GET("/reports/:type", reportsHandler.DownloadReport)

		admin.GET("/auditlogs", auditHandler.GetAuditLogs)
		admin.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)
	}

	return notifSvc
}
