package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizPostgreSQL_GetQuizWithQuestions(t *testing.T) {
	db := newTestDB(t)
	seeded := seedQuiz(t, db)
	repo := NewQuizPostgreSQL(db)

	quiz, err := repo.GetQuizWithQuestions(context.Background(), seeded.ID)
	require.NoError(t, err)

	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "Cells are the unit of life", quiz.Questions[0].Text)
	assert.Equal(t, 3, quiz.TotalPoints())
	require.Len(t, quiz.Questions[0].Options, 2)
	assert.Equal(t, "True", quiz.Questions[0].Options[0].Text)
	assert.True(t, quiz.Questions[0].Options[0].IsCorrect)
}

func TestQuizPostgreSQL_GetQuizWithQuestions_NotFound(t *testing.T) {
	repo := NewQuizPostgreSQL(newTestDB(t))

	_, err := repo.GetQuizWithQuestions(context.Background(), 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProgressPostgreSQL_IsCourseOtherwiseComplete(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressPostgreSQL(db)
	ctx := context.Background()

	done, err := repo.IsCourseOtherwiseComplete(ctx, "student-1", 10)
	require.NoError(t, err)
	assert.True(t, done, "a course without lessons has nothing left")

	lessons := []models.Lesson{{CourseID: 10, Title: "Intro"}, {CourseID: 10, Title: "Membranes"}, {CourseID: 11, Title: "Other"}}
	require.NoError(t, db.Create(&lessons).Error)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.LessonProgress{StudentID: "student-1", LessonID: lessons[0].ID, IsCompleted: true, CompletedAt: &now}).Error)

	done, err = repo.IsCourseOtherwiseComplete(ctx, "student-1", 10)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, db.Create(&models.LessonProgress{StudentID: "student-1", LessonID: lessons[1].ID, IsCompleted: true, CompletedAt: &now}).Error)

	done, err = repo.IsCourseOtherwiseComplete(ctx, "student-1", 10)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = repo.IsCourseOtherwiseComplete(ctx, "student-2", 10)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestNewRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db, nil)

	assert.NotNil(t, repo.Quiz())
	assert.NotNil(t, repo.Attempt())
	assert.NotNil(t, repo.Progress())
}
