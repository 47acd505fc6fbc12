package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/events"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
)

// CertificateTrigger is told when a student passed the final quiz of a completed course
type CertificateTrigger interface {
	NotifyQuizPassed(ctx context.Context, studentID string, courseID uint) error
}

// NotificationEventService publishes attempt lifecycle events for downstream consumers
type NotificationEventService interface {
	CertificateTrigger

	NotifyAttemptStarted(ctx context.Context, attempt *models.QuizAttempt, quiz *models.Quiz) error
	NotifyAttemptSubmitted(ctx context.Context, attempt *models.QuizAttempt, pendingReviews int) error
	NotifyAttemptAbandoned(ctx context.Context, attempt *models.QuizAttempt) error
}

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationEventService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== ATTEMPT NOTIFICATIONS =====

func (s *notificationEventService) NotifyAttemptStarted(ctx context.Context, attempt *models.QuizAttempt, quiz *models.Quiz) error {
	s.logger.Debug("Publishing attempt started event", "attempt_id", attempt.ID)

	event := events.NewAttemptStartedEvent(events.AttemptStartedEvent{
		AttemptID:     attempt.ID,
		QuizID:        attempt.QuizID,
		QuizTitle:     quiz.Title,
		StudentID:     attempt.StudentID,
		AttemptNumber: attempt.AttemptNumber,
		StartedAt:     attempt.StartedAt,
		DeadlineAt:    attempt.DeadlineAt,
	})
	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

func (s *notificationEventService) NotifyAttemptSubmitted(ctx context.Context, attempt *models.QuizAttempt, pendingReviews int) error {
	s.logger.Debug("Publishing attempt submitted event", "attempt_id", attempt.ID)

	submittedAt := time.Now().UTC()
	if attempt.CompletedAt != nil {
		submittedAt = *attempt.CompletedAt
	}
	event := events.NewAttemptSubmittedEvent(events.AttemptSubmittedEvent{
		AttemptID:      attempt.ID,
		QuizID:         attempt.QuizID,
		StudentID:      attempt.StudentID,
		SubmittedAt:    submittedAt,
		Score:          attempt.TotalScore,
		MaxScore:       attempt.MaxScore,
		Percentage:     attempt.Percentage,
		Passed:         attempt.IsPassed,
		PendingReviews: pendingReviews,
	})
	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

func (s *notificationEventService) NotifyAttemptAbandoned(ctx context.Context, attempt *models.QuizAttempt) error {
	s.logger.Debug("Publishing attempt abandoned event", "attempt_id", attempt.ID)

	event := events.NewAttemptAbandonedEvent(events.AttemptAbandonedEvent{
		AttemptID:   attempt.ID,
		QuizID:      attempt.QuizID,
		StudentID:   attempt.StudentID,
		AbandonedAt: time.Now().UTC(),
	})
	return s.eventPublisher.PublishNotificationEvent(ctx, event)
}

// ===== CERTIFICATE NOTIFICATIONS =====

func (s *notificationEventService) NotifyQuizPassed(ctx context.Context, studentID string, courseID uint) error {
	s.logger.Info("Publishing certificate eligible event",
		"student_id", studentID,
		"course_id", courseID)

	return s.eventPublisher.PublishNotificationEvent(ctx, events.NewCertificateEligibleEvent(studentID, courseID))
}
