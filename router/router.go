package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/vamosmerendar/merendar-app/controllers"
	"github.com/vamosmerendar/merendar-app/middlewares"
	"github.com/vamosmerendar/merendar-app/services"
	"github.com/vamosmerendar/merendar-app/utils"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	return SetupRouterWithDeps(db, nil, nil)
}

// SetupRouterWithDeps accepts an explicit window policy (tests pin the clock
// through it) and an optional redis cache.
func SetupRouterWithDeps(db *gorm.DB, policy *services.WindowPolicy, cache *utils.Cache) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	attendanceCtrl := controllers.NewAttendanceControllerWithPolicy(db, policy)
	qrCtrl := controllers.NewQRController(db)
	confirmationCtrl := controllers.NewConfirmationController(db)
	menuCtrl := controllers.NewMenuController(db)
	feedbackCtrl := controllers.NewFeedbackController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	reportCtrl := controllers.NewReportController(db, cache)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// weekly menu is readable without login (welcome screen)
	r.GET("/menus", menuCtrl.GetMenuByDate)
	r.GET("/menus/week", menuCtrl.GetWeeklyMenu)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)

	// ATTENDANCE (students)
	student := auth.Group("/")
	student.Use(middlewares.RequireRole("student"))
	{
		student.POST("/attendance", attendanceCtrl.SetMealStatus)
		student.GET("/attendance", attendanceCtrl.GetMyAttendance)
		student.GET("/attendance/qr", qrCtrl.GetMealQR)
		student.POST("/feedback", feedbackCtrl.CreateFeedback)
	}

	// NOTIFICATIONS (all roles)
	auth.GET("/notifications", notificationCtrl.GetMyNotifications)
	auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkAsRead)
	auth.POST("/notifications/read-all", notificationCtrl.MarkAllAsRead)

	// NUTRITIONIST
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRole("nutritionist"))
	{
		admin.GET("/confirmations", confirmationCtrl.ListConfirmations)
		admin.GET("/attendance-log", confirmationCtrl.GetAttendanceLog)
		admin.POST("/qr/verify", qrCtrl.VerifyMealQR)

		admin.POST("/menus", menuCtrl.UpsertMenu)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		admin.GET("/feedback", feedbackCtrl.ListFeedback)

		admin.POST("/notifications", notificationCtrl.CreateNotification)
		admin.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

		admin.GET("/dashboard/stats", reportCtrl.GetDashboardStats)
		admin.GET("/reports/attendance-pdf", reportCtrl.ExportAttendancePDF)
	}

	// WebSocket endpoint: token via query parameter
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", controllers.RealtimeHandler)
	}

	return r
}
