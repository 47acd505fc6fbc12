package repositories

import (
	"errors"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"gorm.io/gorm"
)

// Repository groups the stores the attempt workflow reads and writes
type Repository interface {
	Quiz() QuizRepository
	Attempt() AttemptRepository
	Progress() ProgressRepository
}

// ===== SHARED ERRORS =====

var (
	ErrNotFound             = errors.New("record not found")
	ErrAttemptLimitReached  = errors.New("attempt limit reached")
	ErrAttemptNotInProgress = errors.New("attempt is not in progress")
	ErrSlotContention       = errors.New("attempt slot contention")
)

// IsNotFoundError reports whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type AttemptFilters struct {
	Status *models.AttemptStatus `json:"status"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}
