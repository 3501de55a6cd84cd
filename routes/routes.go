package routes

import (
	"net/http"

	"classquiz/handlers"
	"classquiz/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	sessionHandler *handlers.SessionHandler,
	studentHandler *handlers.StudentHandler,
	jwtSecret string,
	db *gorm.DB,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes (teacher dashboard)
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// Teacher profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Quiz routes (create and read only; quizzes are immutable)
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetTeacherQuizzes)
				quizzes.POST("", quizHandler.CreateQuiz)
				quizzes.GET("/:id", quizHandler.GetQuizByID)
			}

			// Session lifecycle (teacher only)
			sessions := protected.Group("/sessions")
			{
				sessions.POST("", sessionHandler.StartSession)
				sessions.POST("/:id/close", sessionHandler.CloseSession)
			}
		}

		// Public session routes, polled by both dashboards
		sessions := api.Group("/sessions")
		{
			sessions.GET("/:id/info", sessionHandler.GetSessionInfo)
			sessions.GET("/:id/results", sessionHandler.GetSessionResults)
			sessions.GET("/:id/students", sessionHandler.GetStudentResponses)
		}

		// Class-code lookup for joining students
		api.GET("/class/:code", sessionHandler.GetSessionByCode)

		// Student routes (public)
		students := api.Group("/students")
		{
			students.POST("/join", studentHandler.JoinSession)
			students.POST("/answer", studentHandler.SubmitAnswer)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
	})
}
