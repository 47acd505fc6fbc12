package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers holds query fragments reused across repositories
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// pairScope narrows a query to one (student, quiz) pair
func pairScope(studentID string, quizID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("student_id = ? AND quiz_id = ?", studentID, quizID)
	}
}

// CountNonAbandoned counts in-progress and submitted attempts of the pair
func (h *SharedHelpers) CountNonAbandoned(ctx context.Context, tx *gorm.DB, studentID string, quizID uint) (int64, error) {
	var count int64
	err := h.getDB(tx).WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Scopes(pairScope(studentID, quizID)).
		Where("status <> ?", models.AttemptAbandoned).
		Count(&count).Error
	return count, err
}

// LastAttemptNumber returns the highest attempt number of the pair, 0 when none exist
func (h *SharedHelpers) LastAttemptNumber(ctx context.Context, tx *gorm.DB, studentID string, quizID uint) (int, error) {
	var last int
	err := h.getDB(tx).WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Scopes(pairScope(studentID, quizID)).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&last).Error
	return last, err
}

// ApplyPagination applies limit and offset to a query
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, filters repositories.AttemptFilters) *gorm.DB {
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

func (h *SharedHelpers) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return h.db
}
