package main

import (
	"log"

	"classquiz/config"
	"classquiz/handlers"
	"classquiz/middleware"
	"classquiz/models"
	"classquiz/routes"
	"classquiz/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Teacher{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.Session{},
		&models.Student{},
		&models.StudentAnswer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db)
	sessionService := services.NewSessionService(db)
	answerService := services.NewAnswerService(db)
	resultsService := services.NewResultsService(db, redisClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	sessionHandler := handlers.NewSessionHandler(sessionService, resultsService)
	studentHandler := handlers.NewStudentHandler(sessionService, answerService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, sessionHandler, studentHandler, cfg.JWTSecret, db)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
