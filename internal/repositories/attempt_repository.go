package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
)

// AttemptRepository interface for quiz attempt operations
type AttemptRepository interface {
	// CreateWithinLimit inserts attempt with the next attempt number unless the pair already
	// holds limit non-abandoned attempts. limit 0 means unlimited.
	CreateWithinLimit(ctx context.Context, attempt *models.QuizAttempt, limit int) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	GetAnswers(ctx context.Context, attemptID uint) ([]*models.AttemptAnswer, error)

	// Finalize moves an in-progress attempt to submitted and stores its answers in one transaction.
	// Returns ErrAttemptNotInProgress when another writer got there first.
	Finalize(ctx context.Context, attempt *models.QuizAttempt, answers []*models.AttemptAnswer) error

	// Status management
	Abandon(ctx context.Context, id uint) error
	AbandonExpired(ctx context.Context, studentID string, quizID uint, cutoff time.Time) (int64, error)

	// Query operations
	CountActive(ctx context.Context, studentID string, quizID uint) (int, error)
	ListByStudentAndQuiz(ctx context.Context, studentID string, quizID uint, filters AttemptFilters) ([]*models.QuizAttempt, error)
}
