package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of notification events
type EventType string

const (
	// Attempt events
	EventAttemptStarted   EventType = "attempt.started"
	EventAttemptSubmitted EventType = "attempt.submitted"
	EventAttemptAbandoned EventType = "attempt.abandoned"

	// Certificate events
	EventCertificateEligible EventType = "certificate.eligible"
)

const (
	eventSource  = "quiz-attempt-service"
	eventVersion = "1.0"

	metadataPartitionKey = "partition_key"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Attempt notification event payloads

type AttemptStartedEvent struct {
	AttemptID     uint       `json:"attempt_id"`
	QuizID        uint       `json:"quiz_id"`
	QuizTitle     string     `json:"quiz_title"`
	StudentID     string     `json:"student_id"`
	AttemptNumber int        `json:"attempt_number"`
	StartedAt     time.Time  `json:"started_at"`
	DeadlineAt    *time.Time `json:"deadline_at,omitempty"`
}

type AttemptSubmittedEvent struct {
	AttemptID      uint      `json:"attempt_id"`
	QuizID         uint      `json:"quiz_id"`
	StudentID      string    `json:"student_id"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Score          int       `json:"score"`
	MaxScore       int       `json:"max_score"`
	Percentage     float64   `json:"percentage"`
	Passed         bool      `json:"passed"`
	PendingReviews int       `json:"pending_reviews"`
}

type AttemptAbandonedEvent struct {
	AttemptID   uint      `json:"attempt_id"`
	QuizID      uint      `json:"quiz_id"`
	StudentID   string    `json:"student_id"`
	AbandonedAt time.Time `json:"abandoned_at"`
}

// Certificate notification event payload

type CertificateEligibleEvent struct {
	StudentID  string    `json:"student_id"`
	CourseID   uint      `json:"course_id"`
	EligibleAt time.Time `json:"eligible_at"`
}

// Event factory functions

// newEvent builds the envelope. Events are partitioned by student.
func newEvent(eventType EventType, studentID string, data interface{}) *NotificationEvent {
	return &NotificationEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
		Metadata:  map[string]interface{}{metadataPartitionKey: studentID},
	}
}

func NewAttemptStartedEvent(payload AttemptStartedEvent) *NotificationEvent {
	return newEvent(EventAttemptStarted, payload.StudentID, payload)
}

func NewAttemptSubmittedEvent(payload AttemptSubmittedEvent) *NotificationEvent {
	return newEvent(EventAttemptSubmitted, payload.StudentID, payload)
}

func NewAttemptAbandonedEvent(payload AttemptAbandonedEvent) *NotificationEvent {
	return newEvent(EventAttemptAbandoned, payload.StudentID, payload)
}

func NewCertificateEligibleEvent(studentID string, courseID uint) *NotificationEvent {
	return newEvent(EventCertificateEligible, studentID, CertificateEligibleEvent{
		StudentID:  studentID,
		CourseID:   courseID,
		EligibleAt: time.Now().UTC(),
	})
}

// GenerateEventID returns a random event id
func GenerateEventID() string {
	return uuid.NewString()
}
