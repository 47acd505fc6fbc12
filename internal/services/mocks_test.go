package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockNotificationEventService for testing
type MockNotificationEventService struct {
	mock.Mock
}

func (m *MockNotificationEventService) NotifyAttemptStarted(ctx context.Context, attempt *models.QuizAttempt, quiz *models.Quiz) error {
	args := m.Called(ctx, attempt, quiz)
	return args.Error(0)
}

func (m *MockNotificationEventService) NotifyAttemptSubmitted(ctx context.Context, attempt *models.QuizAttempt, pendingReviews int) error {
	args := m.Called(ctx, attempt, pendingReviews)
	return args.Error(0)
}

func (m *MockNotificationEventService) NotifyAttemptAbandoned(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockNotificationEventService) NotifyQuizPassed(ctx context.Context, studentID string, courseID uint) error {
	args := m.Called(ctx, studentID, courseID)
	return args.Error(0)
}

// quietNotifier accepts every lifecycle event
func quietNotifier() *MockNotificationEventService {
	n := new(MockNotificationEventService)
	n.On("NotifyAttemptStarted", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	n.On("NotifyAttemptSubmitted", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	n.On("NotifyAttemptAbandoned", mock.Anything, mock.Anything).Return(nil).Maybe()
	return n
}

// testClock is a settable clock
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db       *gorm.DB
	repo     repositories.Repository
	notifier *MockNotificationEventService
	clock    *testClock
	svc      AttemptService
}

func newFixture(t *testing.T, notifier *MockNotificationEventService) *fixture {
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
	require.NoError(t, postgres.AutoMigrate(db))

	if notifier == nil {
		notifier = quietNotifier()
	}
	f := &fixture{
		db:       db,
		notifier: notifier,
		clock:    &testClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)},
	}
	f.repo = postgres.NewRepository(db, nil)
	f.svc = f.newService(t, f.repo)
	return f
}

func (f *fixture) newService(t *testing.T, repo repositories.Repository) AttemptService {
	svc := NewAttemptService(repo, f.notifier, slog.New(slog.NewTextHandler(io.Discard, nil)), validator.New(), AttemptConfig{
		EnforceTimeLimit: true,
		SubmitGrace:      2 * time.Minute,
		NotifyTimeout:    time.Second,
		Now:              f.clock.Now,
	})
	t.Cleanup(svc.Wait)
	return svc
}

// twoQuestionQuiz has two single-choice questions worth 1 point each, passing at 70%
func twoQuestionQuiz() *models.Quiz {
	return &models.Quiz{
		Title:             "Photosynthesis basics",
		Status:            models.QuizStatusActive,
		PassingPercentage: 70,
		MaxAttempts:       3,
		AllowRetake:       true,
		Questions: []models.Question{
			{
				Text: "Which gas do plants absorb?", Type: models.QuestionSingleChoice, Points: 1, Position: 1,
				Options: []models.Option{
					{Text: "Oxygen", Position: 1},
					{Text: "Carbon dioxide", IsCorrect: true, Position: 2},
				},
			},
			{
				Text: "Where does photosynthesis happen?", Type: models.QuestionSingleChoice, Points: 1, Position: 2,
				Options: []models.Option{
					{Text: "Chloroplast", IsCorrect: true, Position: 1},
					{Text: "Ribosome", Position: 2},
				},
			},
		},
	}
}

func (f *fixture) createQuiz(t *testing.T, quiz *models.Quiz) *models.Quiz {
	t.Helper()
	require.NoError(t, f.db.Create(quiz).Error)
	return quiz
}

// correctAnswers answers every single-choice question with its first correct option
func correctAnswers(quiz *models.Quiz) []models.AnswerInput {
	var answers []models.AnswerInput
	for _, q := range quiz.Questions {
		for _, o := range q.Options {
			if o.IsCorrect {
				optionID := o.ID
				answers = append(answers, models.AnswerInput{QuestionID: q.ID, SelectedOptionID: &optionID})
				break
			}
		}
	}
	return answers
}

func wrongOption(q models.Question) *uint {
	for _, o := range q.Options {
		if !o.IsCorrect {
			id := o.ID
			return &id
		}
	}
	return nil
}

func student(id string) models.Principal {
	return models.Principal{UserID: id, Role: models.RoleStudent}
}

// finalizeLoser simulates a concurrent submit that committed first
type finalizeLoser struct {
	repositories.AttemptRepository
}

func (f finalizeLoser) Finalize(ctx context.Context, attempt *models.QuizAttempt, answers []*models.AttemptAnswer) error {
	return repositories.ErrAttemptNotInProgress
}

type repoWithAttempts struct {
	repositories.Repository
	attempts repositories.AttemptRepository
}

func (r repoWithAttempts) Attempt() repositories.AttemptRepository { return r.attempts }
