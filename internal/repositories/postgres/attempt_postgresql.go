package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

// maxSlotRetries bounds how often a start retries after losing the attempt-number race
const maxSlotRetries = 5

type AttemptPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a *AttemptPostgreSQL) CreateWithinLimit(ctx context.Context, attempt *models.QuizAttempt, limit int) error {
	var err error
	for try := 0; try < maxSlotRetries; try++ {
		err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			active, err := a.helpers.CountNonAbandoned(ctx, tx, attempt.StudentID, attempt.QuizID)
			if err != nil {
				return err
			}
			if limit > 0 && active >= int64(limit) {
				return repositories.ErrAttemptLimitReached
			}

			last, err := a.helpers.LastAttemptNumber(ctx, tx, attempt.StudentID, attempt.QuizID)
			if err != nil {
				return err
			}

			attempt.ID = 0
			attempt.AttemptNumber = last + 1
			return tx.Create(attempt).Error
		})

		// A concurrent start took the same attempt number; re-read and try again
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", repositories.ErrSlotContention, err)
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetAnswers(ctx context.Context, attemptID uint) ([]*models.AttemptAnswer, error) {
	var answers []*models.AttemptAnswer
	if err := a.db.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("question_id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AttemptPostgreSQL) Finalize(ctx context.Context, attempt *models.QuizAttempt, answers []*models.AttemptAnswer) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional update: only one writer can move the attempt out of in_progress
		result := tx.Model(&models.QuizAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, models.AttemptInProgress).
			Updates(map[string]interface{}{
				"status":             models.AttemptSubmitted,
				"completed_at":       attempt.CompletedAt,
				"total_score":        attempt.TotalScore,
				"max_score":          attempt.MaxScore,
				"percentage":         attempt.Percentage,
				"is_passed":          attempt.IsPassed,
				"time_spent_minutes": attempt.TimeSpentMinutes,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repositories.ErrAttemptNotInProgress
		}

		if len(answers) == 0 {
			return nil
		}
		for _, answer := range answers {
			answer.AttemptID = attempt.ID
		}
		return tx.Create(&answers).Error
	})
}

func (a *AttemptPostgreSQL) Abandon(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("id = ? AND status = ?", id, models.AttemptInProgress).
		Update("status", models.AttemptAbandoned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrAttemptNotInProgress
	}
	return nil
}

func (a *AttemptPostgreSQL) AbandonExpired(ctx context.Context, studentID string, quizID uint, cutoff time.Time) (int64, error) {
	result := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Scopes(pairScope(studentID, quizID)).
		Where("status = ? AND deadline_at IS NOT NULL AND deadline_at < ?", models.AttemptInProgress, cutoff).
		Update("status", models.AttemptAbandoned)
	return result.RowsAffected, result.Error
}

func (a *AttemptPostgreSQL) CountActive(ctx context.Context, studentID string, quizID uint) (int, error) {
	count, err := a.helpers.CountNonAbandoned(ctx, nil, studentID, quizID)
	return int(count), err
}

func (a *AttemptPostgreSQL) ListByStudentAndQuiz(ctx context.Context, studentID string, quizID uint, filters repositories.AttemptFilters) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt

	query := a.db.WithContext(ctx).Model(&models.QuizAttempt{}).Scopes(pairScope(studentID, quizID))
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	query = a.helpers.ApplyPagination(query, filters)

	if err := query.Order("attempt_number DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}
