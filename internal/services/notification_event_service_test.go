package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/events"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEventService_PublishEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	service := NewNotificationEventService(publisher, logger)
	ctx := context.Background()

	started := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	completed := started.Add(12 * time.Minute)
	attempt := &models.QuizAttempt{
		ID:            7,
		QuizID:        3,
		StudentID:     "student-1",
		AttemptNumber: 2,
		StartedAt:     started,
		CompletedAt:   &completed,
		TotalScore:    4,
		MaxScore:      5,
		Percentage:    80,
		IsPassed:      true,
	}

	t.Run("attempt started", func(t *testing.T) {
		publisher.ClearEvents()

		require.NoError(t, service.NotifyAttemptStarted(ctx, attempt, &models.Quiz{ID: 3, Title: "Cell biology"}))

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		event := published[0]
		assert.Equal(t, events.EventAttemptStarted, event.Type)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, "quiz-attempt-service", event.Source)
		assert.Equal(t, "1.0", event.Version)
		assert.False(t, event.Timestamp.IsZero())

		data, ok := event.Data.(events.AttemptStartedEvent)
		require.True(t, ok)
		assert.Equal(t, "Cell biology", data.QuizTitle)
		assert.Equal(t, 2, data.AttemptNumber)
	})

	t.Run("attempt submitted", func(t *testing.T) {
		publisher.ClearEvents()

		require.NoError(t, service.NotifyAttemptSubmitted(ctx, attempt, 1))

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		data, ok := published[0].Data.(events.AttemptSubmittedEvent)
		require.True(t, ok)
		assert.Equal(t, completed, data.SubmittedAt)
		assert.Equal(t, 4, data.Score)
		assert.Equal(t, 5, data.MaxScore)
		assert.True(t, data.Passed)
		assert.Equal(t, 1, data.PendingReviews)
	})

	t.Run("attempt abandoned", func(t *testing.T) {
		publisher.ClearEvents()

		require.NoError(t, service.NotifyAttemptAbandoned(ctx, attempt))

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventAttemptAbandoned, published[0].Type)
	})

	t.Run("certificate eligible", func(t *testing.T) {
		publisher.ClearEvents()

		require.NoError(t, service.NotifyQuizPassed(ctx, "student-1", 12))

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		event := published[0]
		assert.Equal(t, events.EventCertificateEligible, event.Type)
		assert.Equal(t, "student-1", event.Metadata["partition_key"])

		data, ok := event.Data.(events.CertificateEligibleEvent)
		require.True(t, ok)
		assert.Equal(t, uint(12), data.CourseID)
	})
}

func BenchmarkNotificationEventService_NotifyQuizPassed(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewNotificationEventService(events.NewMockEventPublisher(logger), logger)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := service.NotifyQuizPassed(ctx, "student-1", 1); err != nil {
			b.Fatalf("Failed to publish event: %v", err)
		}
	}
}
