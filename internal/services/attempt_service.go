package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/reports"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/validator"
)

// AttemptService runs the quiz attempt workflow
type AttemptService interface {
	StartAttempt(ctx context.Context, quizID uint, studentID string) (*models.AttemptSnapshot, error)
	SubmitAttempt(ctx context.Context, quizID uint, req *models.SubmitAttemptRequest, studentID string) (*models.AttemptResult, error)
	GetAttemptResult(ctx context.Context, attemptID uint, caller models.Principal) (*models.AttemptResult, error)
	ListAttempts(ctx context.Context, quizID uint, studentID string, caller models.Principal) (*models.AttemptHistory, error)
	ExportAttempts(ctx context.Context, quizID uint, studentID string, caller models.Principal) ([]byte, error)

	// Wait blocks until background notifications have finished
	Wait()
}

type AttemptConfig struct {
	EnforceTimeLimit bool
	SubmitGrace      time.Duration
	NotifyTimeout    time.Duration
	Now              func() time.Time
}

type attemptService struct {
	repo      repositories.Repository
	notifier  NotificationEventService
	logger    *slog.Logger
	opLog     *ServiceLogger
	validator *validator.Validator
	cfg       AttemptConfig
	wg        sync.WaitGroup
}

// NewAttemptService wires the attempt workflow. notifier may be nil to disable events.
func NewAttemptService(repo repositories.Repository, notifier NotificationEventService, logger *slog.Logger, validator *validator.Validator, cfg AttemptConfig) AttemptService {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &attemptService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "quiz-attempt-service", Component: "attempt"}),
		validator: validator,
		cfg:       cfg,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) StartAttempt(ctx context.Context, quizID uint, studentID string) (snapshot *models.AttemptSnapshot, err error) {
	op := s.opLog.WithOperation(ctx, "start_attempt", studentID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive() {
		return nil, ErrQuizNotFound
	}

	now := s.cfg.Now()
	if s.cfg.EnforceTimeLimit {
		s.abandonExpired(ctx, studentID, quizID, now)
	}

	attempt := &models.QuizAttempt{
		QuizID:    quizID,
		StudentID: studentID,
		Status:    models.AttemptInProgress,
		StartedAt: now,
	}
	if quiz.DurationMinutes > 0 {
		deadline := now.Add(time.Duration(quiz.DurationMinutes) * time.Minute)
		attempt.DeadlineAt = &deadline
	}
	if err = attempt.SetQuestionSnapshot(quiz.Questions); err != nil {
		return nil, err
	}

	policy := PolicyFor(quiz)
	if err = s.repo.Attempt().CreateWithinLimit(ctx, attempt, policy.Limit()); err != nil {
		if errors.Is(err, repositories.ErrAttemptLimitReached) {
			return nil, ErrAttemptLimitExceeded
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	used, err := s.repo.Attempt().CountActive(ctx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	s.logger.Info("Quiz attempt started",
		"attempt_id", attempt.ID,
		"quiz_id", quizID,
		"student_id", studentID,
		"attempt_number", attempt.AttemptNumber)

	s.dispatch(ctx, "attempt_started", func(ctx context.Context) error {
		return s.notifier.NotifyAttemptStarted(ctx, attempt, quiz)
	})

	return buildSnapshot(quiz, attempt, policy, used), nil
}

func (s *attemptService) SubmitAttempt(ctx context.Context, quizID uint, req *models.SubmitAttemptRequest, studentID string) (result *models.AttemptResult, err error) {
	if req == nil {
		return nil, ErrValidationFailed
	}
	op := s.opLog.WithOperation(ctx, "submit_attempt", studentID)
	defer func() { op.LogResult(req.AttemptID, "attempt", err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	attempt, err := s.repo.Attempt().GetByID(ctx, req.AttemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.QuizID != quizID {
		return nil, ErrAttemptNotFound
	}
	if attempt.StudentID != studentID {
		return nil, NewPermissionError(studentID, attempt.ID, "attempt", "submit", "not owned by student")
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrAttemptAlreadySubmitted
	}

	now := s.cfg.Now()
	if s.cfg.EnforceTimeLimit && attempt.Expired(now, s.cfg.SubmitGrace) {
		s.abandon(ctx, attempt)
		return nil, ErrAttemptTimeExpired
	}

	quiz, err := s.loadQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	snapshot, err := attempt.Snapshot()
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		// Rows written before snapshots existed grade against the live quiz
		snapshot = snapshotOf(quiz)
	}
	grade, err := GradeAttempt(snapshot, quiz, req.Answers)
	if err != nil {
		return nil, err
	}

	attempt.TotalScore = grade.TotalScore
	attempt.MaxScore = grade.MaxScore
	attempt.Percentage = grade.Percentage
	attempt.IsPassed = grade.Passed
	attempt.CompletedAt = &now
	attempt.TimeSpentMinutes = minutesBetween(attempt.StartedAt, now)

	if err = s.repo.Attempt().Finalize(ctx, attempt, grade.Answers); err != nil {
		if errors.Is(err, repositories.ErrAttemptNotInProgress) {
			return nil, ErrAttemptAlreadySubmitted
		}
		return nil, fmt.Errorf("failed to finalize attempt: %w", err)
	}
	attempt.Status = models.AttemptSubmitted

	s.logger.Info("Quiz attempt submitted",
		"attempt_id", attempt.ID,
		"quiz_id", attempt.QuizID,
		"student_id", studentID,
		"score", attempt.TotalScore,
		"max_score", attempt.MaxScore,
		"passed", attempt.IsPassed)

	s.dispatch(ctx, "attempt_submitted", func(ctx context.Context) error {
		return s.notifier.NotifyAttemptSubmitted(ctx, attempt, grade.PendingReviews)
	})
	if attempt.IsPassed && quiz.IsFinal && quiz.CourseID != nil {
		courseID := *quiz.CourseID
		s.dispatch(ctx, "certificate_check", func(ctx context.Context) error {
			return s.checkCertificate(ctx, studentID, courseID)
		})
	}

	used, err := s.repo.Attempt().CountActive(ctx, studentID, attempt.QuizID)
	if err != nil {
		// The attempt is graded; fall back to its number for the counter
		s.logger.Warn("Failed to count attempts after submit", "attempt_id", attempt.ID, "error", err)
		used = attempt.AttemptNumber
	}

	return buildResult(attempt, PolicyFor(quiz), used, grade.Outcomes), nil
}

func (s *attemptService) GetAttemptResult(ctx context.Context, attemptID uint, caller models.Principal) (result *models.AttemptResult, err error) {
	op := s.opLog.WithOperation(ctx, "get_attempt_result", caller.UserID)
	defer func() { op.LogResult(attemptID, "attempt", err) }()

	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if !s.canAccessAttempt(attempt, caller) {
		return nil, NewPermissionError(caller.UserID, attempt.ID, "attempt", "read", "not owned by student")
	}
	if attempt.Status != models.AttemptSubmitted {
		return nil, ErrAttemptNotSubmitted
	}

	answers, err := s.repo.Attempt().GetAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	snapshot, err := attempt.Snapshot()
	if err != nil {
		return nil, err
	}

	used, err := s.repo.Attempt().CountActive(ctx, attempt.StudentID, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}

	return buildResult(attempt, s.policyOrClosed(ctx, attempt.QuizID), used, OutcomesFromAnswers(snapshot, answers)), nil
}

func (s *attemptService) ListAttempts(ctx context.Context, quizID uint, studentID string, caller models.Principal) (history *models.AttemptHistory, err error) {
	op := s.opLog.WithOperation(ctx, "list_attempts", caller.UserID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	history, _, err = s.history(ctx, quizID, studentID, caller)
	return history, err
}

func (s *attemptService) ExportAttempts(ctx context.Context, quizID uint, studentID string, caller models.Principal) (data []byte, err error) {
	op := s.opLog.WithOperation(ctx, "export_attempts", caller.UserID)
	defer func() { op.LogResult(quizID, "quiz", err) }()

	history, quiz, err := s.history(ctx, quizID, studentID, caller)
	if err != nil {
		return nil, err
	}
	data, err = reports.AttemptHistoryWorkbook(quiz.Title, history)
	if err != nil {
		return nil, fmt.Errorf("failed to render attempt history: %w", err)
	}
	return data, nil
}

func (s *attemptService) Wait() {
	s.wg.Wait()
}
