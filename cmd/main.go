package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sharath018/farm-irrigation-backend/config"
	"github.com/sharath018/farm-irrigation-backend/database"
	"github.com/sharath018/farm-irrigation-backend/internal/area"
	"github.com/sharath018/farm-irrigation-backend/internal/auditlog"
	"github.com/sharath018/farm-irrigation-backend/internal/auth"
	"github.com/sharath018/farm-irrigation-backend/internal/farm"
	"github.com/sharath018/farm-irrigation-backend/internal/notification"
	"github.com/sharath018/farm-irrigation-backend/internal/watering"
	"github.com/sharath018/farm-irrigation-backend/routes"
	"github.com/sharath018/farm-irrigation-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis (optional, used for token blacklist and stats caching)
	if err := utils.InitRedis(); err != nil {
		log.Printf("⚠️ Redis init failed, continuing without it: %v", err)
	}

	// Init Kafka (optional, used for notification fan-out)
	utils.InitializeKafka()

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&area.Area{},
		&farm.Farm{},
		&watering.WateringLog{},
		&notification.Notification{},
		&auditlog.AuditLog{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Seed the bootstrap admin account
	if err := auth.SeedAdminUser(db, cfg); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed admin user: %v", err))
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Visit photos are served straight from the upload directory
	if err := os.MkdirAll(cfg.UploadPath, 0o755); err != nil {
		panic(fmt.Sprintf("❌ Failed to create upload directory: %v", err))
	}
	router.Static("/uploads", cfg.UploadPath)

	notifSvc := routes.Setup(router, cfg)
	notification.StartKafkaConsumer(context.Background(), notifSvc)

	log.Printf("🚀 Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
