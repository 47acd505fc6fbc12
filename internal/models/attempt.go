package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// QuestionRef is one entry of the question snapshot taken when an attempt starts
type QuestionRef struct {
	QuestionID uint `json:"question_id"`
	Points     int  `json:"points"`
}

type QuizAttempt struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	QuizID        uint          `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_attempt_slot,priority:2"`
	StudentID     string        `json:"student_id" gorm:"not null;size:255;index;uniqueIndex:idx_attempt_slot,priority:1"`
	AttemptNumber int           `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_slot,priority:3"`
	Status        AttemptStatus `json:"status" gorm:"not null;default:in_progress;size:20;index"`

	// Timing
	StartedAt        time.Time  `json:"started_at" gorm:"not null"`
	DeadlineAt       *time.Time `json:"deadline_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	TimeSpentMinutes int        `json:"time_spent_minutes"`

	// Scoring
	TotalScore int     `json:"total_score"`
	MaxScore   int     `json:"max_score" gorm:"not null"`
	Percentage float64 `json:"percentage"`
	IsPassed   bool    `json:"is_passed"`

	// Ordered []QuestionRef captured at start
	QuestionSnapshot datatypes.JSON `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// SetQuestionSnapshot stores the question list and derives MaxScore from it
func (a *QuizAttempt) SetQuestionSnapshot(questions []Question) error {
	refs := make([]QuestionRef, len(questions))
	maxScore := 0
	for i, q := range questions {
		refs[i] = QuestionRef{QuestionID: q.ID, Points: q.Points}
		maxScore += q.Points
	}
	raw, err := json.Marshal(refs)
	if err != nil {
		return fmt.Errorf("failed to marshal question snapshot: %w", err)
	}
	a.QuestionSnapshot = raw
	a.MaxScore = maxScore
	return nil
}

// Snapshot decodes the question list captured at start
func (a *QuizAttempt) Snapshot() ([]QuestionRef, error) {
	if len(a.QuestionSnapshot) == 0 {
		return nil, nil
	}
	var refs []QuestionRef
	if err := json.Unmarshal(a.QuestionSnapshot, &refs); err != nil {
		return nil, fmt.Errorf("failed to decode question snapshot: %w", err)
	}
	return refs, nil
}

// Expired reports whether the deadline plus grace lies before now
func (a *QuizAttempt) Expired(now time.Time, grace time.Duration) bool {
	if a.DeadlineAt == nil {
		return false
	}
	return now.After(a.DeadlineAt.Add(grace))
}

type AttemptAnswer struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	AttemptID        uint    `json:"attempt_id" gorm:"not null;index;uniqueIndex:idx_attempt_question,priority:1"`
	QuestionID       uint    `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question,priority:2"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	TextAnswer       *string `json:"text_answer" gorm:"type:text"`

	// Grading
	IsCorrect     bool `json:"is_correct"`
	PointsAwarded int  `json:"points_awarded"`
	PendingReview bool `json:"pending_review"` // free-text awaiting manual review

	CreatedAt time.Time `json:"created_at"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
