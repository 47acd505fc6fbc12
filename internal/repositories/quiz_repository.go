package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
)

// QuizRepository is the read side of the quiz catalog
type QuizRepository interface {
	// GetQuizWithQuestions loads a quiz with questions and options ordered by position
	GetQuizWithQuestions(ctx context.Context, quizID uint) (*models.Quiz, error)
}

// ProgressRepository answers course-completion questions for the certificate check
type ProgressRepository interface {
	// IsCourseOtherwiseComplete reports whether every lesson of the course is completed by the student
	IsCourseOtherwiseComplete(ctx context.Context, studentID string, courseID uint) (bool, error)
}
