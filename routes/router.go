package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moringadesk/moringadesk/config"
	"github.com/moringadesk/moringadesk/controllers"
	"github.com/moringadesk/moringadesk/middleware"
	"github.com/moringadesk/moringadesk/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	questionController := controllers.NewQuestionController(db)
	answerController := controllers.NewAnswerController(db)
	followUpController := controllers.NewFollowUpController(db)
	voteController := controllers.NewVoteController(db)
	notificationController := controllers.NewNotificationController(db)
	categoryController := controllers.NewCategoryController(db)
	faqController := controllers.NewFAQController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/forgot-password", authController.ForgotPassword)
	authGroup.POST("/reset-password", authController.ResetPassword)
	authGroup.POST("/google", authController.GoogleTokenLogin)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public read surface
	api.GET("/questions", questionController.ListQuestions)
	api.GET("/questions/:id", questionController.GetQuestion)
	api.GET("/questions/:id/answers", answerController.ListAnswers)
	api.GET("/questions/:id/followups", followUpController.ListFollowUps)
	api.GET("/answers/:id", answerController.GetAnswer)
	api.GET("/answers/:id/votes", voteController.VoteCounts)
	api.GET("/categories", categoryController.ListCategories)
	api.GET("/faqs", faqController.ListFAQs)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/questions", questionController.CreateQuestion)
	protected.PUT("/questions/:id", questionController.UpdateQuestion)
	protected.PUT("/questions/:id/solved", questionController.MarkSolved)
	protected.DELETE("/questions/:id", questionController.DeleteQuestion)

	protected.POST("/questions/:id/answers", answerController.CreateAnswer)
	protected.PUT("/answers/:id", answerController.UpdateAnswer)
	protected.DELETE("/answers/:id", answerController.DeleteAnswer)

	protected.POST("/followups", followUpController.CreateFollowUp)
	protected.PUT("/followups/:id", followUpController.UpdateFollowUp)
	protected.DELETE("/followups/:id", followUpController.DeleteFollowUp)

	protected.POST("/votes", voteController.CastVote)

	protected.GET("/notifications/me", notificationController.MyNotifications)
	protected.GET("/notifications/me/unread-count", notificationController.UnreadCount)
	protected.PUT("/notifications/:id/read", notificationController.MarkRead)
	protected.PUT("/notifications/mark-all-read", notificationController.MarkAllRead)
	protected.DELETE("/notifications/:id", notificationController.DeleteNotification)

	protected.GET("/users/:id", userController.GetUser)
	protected.PUT("/users/:id", userController.UpdateUser)
	protected.DELETE("/users/:id", userController.DeleteUser)

	protected.POST("/faqs", faqController.CreateFAQ)
	protected.PUT("/faqs/:id", faqController.UpdateFAQ)
	protected.DELETE("/faqs/:id", faqController.DeleteFAQ)

	admin := api.Group("")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.RateLimitMiddleware())

	admin.GET("/users", userController.ListUsers)
	admin.PUT("/users/:id/activate", userController.ActivateUser)
	admin.PUT("/answers/:id/approve", answerController.ApproveAnswer)
	admin.GET("/notifications", notificationController.ListAll)
	admin.POST("/categories", categoryController.CreateCategory)
	admin.PUT("/categories/:id", categoryController.UpdateCategory)
	admin.DELETE("/categories/:id", categoryController.DeleteCategory)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
