package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/services"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	attemptHandler *AttemptHandler
}

func NewHandlerManager(attemptService services.AttemptService, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		attemptHandler: NewAttemptHandler(attemptService, logger),
	}
}

// SetupRoutes sets up all API routes. authMiddleware guards everything under /api/v1.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware)
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("/:id/start", hm.attemptHandler.StartAttempt)
			quizzes.POST("/:id/submit", hm.attemptHandler.SubmitAttempt)
			quizzes.GET("/:id/attempts", hm.attemptHandler.ListAttempts)
			quizzes.GET("/:id/attempts/export", hm.attemptHandler.ExportAttempts)
			quizzes.GET("/attempts/:attemptId", hm.attemptHandler.GetAttemptResult)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-attempt-service",
	})
}
