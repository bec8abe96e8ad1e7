package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/config"
	"github.com/vamosmerendar/merendar-app/database"
	"github.com/vamosmerendar/merendar-app/middlewares"
	"github.com/vamosmerendar/merendar-app/models"
	"github.com/vamosmerendar/merendar-app/router"
	"github.com/vamosmerendar/merendar-app/services"
	"github.com/vamosmerendar/merendar-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	cache := utils.NewCache(os.Getenv("REDIS_ADDR"))
	if cache.Healthy(context.Background()) {
		utils.InfoLogger.Println("Redis cache connected")
	} else {
		utils.InfoLogger.Println("Redis not configured, dashboard stats served uncached")
	}

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	monitor := services.NewChangeMonitor(db)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouterWithDeps(db, nil, cache)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.MealAttendance{},
		&models.MealConfirmation{},
		&models.QRCode{},
		&models.DailyMenu{},
		&models.Feedback{},
		&models.Notification{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
}
