package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
)

// ===== HELPER FUNCTIONS =====

func (s *attemptService) loadQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

// policyOrClosed returns the quiz policy, or a no-retake policy once the quiz is gone
func (s *attemptService) policyOrClosed(ctx context.Context, quizID uint) AttemptPolicy {
	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		s.logger.Warn("Quiz unavailable for attempt result", "quiz_id", quizID, "error", err)
		return AttemptPolicy{AllowRetake: false}
	}
	return PolicyFor(quiz)
}

// Students may only access their own attempts; teachers and admins may access any
func (s *attemptService) canAccessAttempt(attempt *models.QuizAttempt, caller models.Principal) bool {
	return attempt.StudentID == caller.UserID || caller.CanReadAnyAttempt()
}

func (s *attemptService) history(ctx context.Context, quizID uint, studentID string, caller models.Principal) (*models.AttemptHistory, *models.Quiz, error) {
	if studentID == "" {
		studentID = caller.UserID
	}
	if studentID != caller.UserID && !caller.CanReadAnyAttempt() {
		return nil, nil, NewPermissionError(caller.UserID, quizID, "quiz", "list_attempts", "not owned by student")
	}

	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	attempts, err := s.repo.Attempt().ListByStudentAndQuiz(ctx, studentID, quizID, repositories.AttemptFilters{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	now := s.cfg.Now()
	history := &models.AttemptHistory{
		QuizID:    quizID,
		StudentID: studentID,
		Attempts:  make([]models.AttemptSummary, 0, len(attempts)),
	}
	for _, attempt := range attempts {
		summary := attempt.Summary()
		// Not yet swept, but already past its deadline
		if s.cfg.EnforceTimeLimit && attempt.Status == models.AttemptInProgress && attempt.Expired(now, s.cfg.SubmitGrace) {
			summary.Status = models.AttemptAbandoned
		}
		if summary.Status != models.AttemptAbandoned {
			history.AttemptsUsed++
		}
		if summary.Status == models.AttemptSubmitted && summary.Percentage > history.BestPercentage {
			history.BestPercentage = summary.Percentage
		}
		history.Attempts = append(history.Attempts, summary)
	}

	policy := PolicyFor(quiz)
	history.AttemptsRemaining = policy.Remaining(history.AttemptsUsed)
	history.CanRetake = policy.CanRetake(history.AttemptsUsed)
	return history, quiz, nil
}

// abandonExpired sweeps the pair's in-progress attempts whose deadline plus grace passed
func (s *attemptService) abandonExpired(ctx context.Context, studentID string, quizID uint, now time.Time) {
	count, err := s.repo.Attempt().AbandonExpired(ctx, studentID, quizID, now.Add(-s.cfg.SubmitGrace))
	if err != nil {
		s.logger.Warn("Failed to abandon expired attempts", "quiz_id", quizID, "student_id", studentID, "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("Abandoned expired attempts", "quiz_id", quizID, "student_id", studentID, "count", count)
	}
}

func (s *attemptService) abandon(ctx context.Context, attempt *models.QuizAttempt) {
	if err := s.repo.Attempt().Abandon(ctx, attempt.ID); err != nil {
		s.logger.Warn("Failed to abandon expired attempt", "attempt_id", attempt.ID, "error", err)
		return
	}
	attempt.Status = models.AttemptAbandoned
	s.logger.Info("Attempt abandoned after deadline", "attempt_id", attempt.ID, "deadline_at", attempt.DeadlineAt)

	s.dispatch(ctx, "attempt_abandoned", func(ctx context.Context) error {
		return s.notifier.NotifyAttemptAbandoned(ctx, attempt)
	})
}

func (s *attemptService) checkCertificate(ctx context.Context, studentID string, courseID uint) error {
	complete, err := s.repo.Progress().IsCourseOtherwiseComplete(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to check course progress: %w", err)
	}
	if !complete {
		s.logger.Debug("Course not complete, skipping certificate", "student_id", studentID, "course_id", courseID)
		return nil
	}
	return s.notifier.NotifyQuizPassed(ctx, studentID, courseID)
}

// dispatch runs fn in the background, detached from request cancellation. Failures are logged only.
func (s *attemptService) dispatch(ctx context.Context, task string, fn func(ctx context.Context) error) {
	if s.notifier == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
		defer cancel()

		if err := fn(bgCtx); err != nil {
			s.logger.Error("Background notification failed", "task", task, "error", err)
		}
	}()
}

// ===== RESPONSE BUILDERS =====

func buildSnapshot(quiz *models.Quiz, attempt *models.QuizAttempt, policy AttemptPolicy, used int) *models.AttemptSnapshot {
	questions := make([]models.QuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		options := make([]models.OptionView, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, models.OptionView{ID: o.ID, Text: o.Text, Position: o.Position})
		}
		questions = append(questions, models.QuestionView{
			ID:       q.ID,
			Text:     q.Text,
			Type:     q.Type,
			Points:   q.Points,
			Position: q.Position,
			Options:  options,
		})
	}

	return &models.AttemptSnapshot{
		AttemptID:         attempt.ID,
		QuizID:            quiz.ID,
		QuizTitle:         quiz.Title,
		AttemptNumber:     attempt.AttemptNumber,
		StartedAt:         attempt.StartedAt,
		DeadlineAt:        attempt.DeadlineAt,
		DurationMinutes:   quiz.DurationMinutes,
		MaxScore:          attempt.MaxScore,
		PassingPercentage: quiz.PassingPercentage,
		AttemptsUsed:      used,
		AttemptsRemaining: policy.Remaining(used),
		Questions:         questions,
	}
}

func buildResult(attempt *models.QuizAttempt, policy AttemptPolicy, used int, outcomes []models.QuestionOutcome) *models.AttemptResult {
	return &models.AttemptResult{
		AttemptID:         attempt.ID,
		QuizID:            attempt.QuizID,
		StudentID:         attempt.StudentID,
		AttemptNumber:     attempt.AttemptNumber,
		Score:             attempt.TotalScore,
		MaxScore:          attempt.MaxScore,
		Percentage:        attempt.Percentage,
		Passed:            attempt.IsPassed,
		AttemptsUsed:      used,
		AttemptsRemaining: policy.Remaining(used),
		CanRetake:         policy.CanRetake(used),
		StartedAt:         attempt.StartedAt,
		CompletedAt:       attempt.CompletedAt,
		TimeSpentMinutes:  attempt.TimeSpentMinutes,
		Questions:         outcomes,
	}
}

func minutesBetween(from, to time.Time) int {
	minutes := int(to.Sub(from) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}
