package postgres

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the service schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// seedQuiz stores an active quiz with two single-choice questions worth 1 and 2 points
func seedQuiz(t *testing.T, db *gorm.DB) *models.Quiz {
	t.Helper()

	quiz := &models.Quiz{
		Title:             "Cell biology",
		Status:            models.QuizStatusActive,
		PassingPercentage: 70,
		MaxAttempts:       3,
		AllowRetake:       true,
		Questions: []models.Question{
			{
				Text: "Powerhouse of the cell?", Type: models.QuestionSingleChoice, Points: 2, Position: 2,
				Options: []models.Option{
					{Text: "Nucleus", Position: 1},
					{Text: "Mitochondria", IsCorrect: true, Position: 2},
				},
			},
			{
				Text: "Cells are the unit of life", Type: models.QuestionSingleChoice, Points: 1, Position: 1,
				Options: []models.Option{
					{Text: "False", Position: 2},
					{Text: "True", IsCorrect: true, Position: 1},
				},
			},
		},
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func newAttempt(studentID string, quizID uint, startedAt time.Time) *models.QuizAttempt {
	return &models.QuizAttempt{
		QuizID:    quizID,
		StudentID: studentID,
		Status:    models.AttemptInProgress,
		StartedAt: startedAt,
		MaxScore:  3,
	}
}
