package models

import "time"

// ===== REQUESTS =====

type AnswerInput struct {
	QuestionID       uint    `json:"question_id" validate:"required"`
	SelectedOptionID *uint   `json:"selected_option_id" validate:"omitempty,gt=0"`
	TextAnswer       *string `json:"text_answer" validate:"omitempty,max=10000"`
}

type SubmitAttemptRequest struct {
	AttemptID uint          `json:"attempt_id" validate:"required"`
	Answers   []AnswerInput `json:"answers" validate:"max=500,dive"`
}

// ===== RESPONSES =====

type OptionView struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type QuestionView struct {
	ID       uint         `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Points   int          `json:"points"`
	Position int          `json:"position"`
	Options  []OptionView `json:"options"`
}

// AttemptSnapshot is what a student receives when an attempt starts. Correctness flags are never included.
type AttemptSnapshot struct {
	AttemptID         uint           `json:"attempt_id"`
	QuizID            uint           `json:"quiz_id"`
	QuizTitle         string         `json:"quiz_title"`
	AttemptNumber     int            `json:"attempt_number"`
	StartedAt         time.Time      `json:"started_at"`
	DeadlineAt        *time.Time     `json:"deadline_at,omitempty"`
	DurationMinutes   int            `json:"duration_minutes"`
	MaxScore          int            `json:"max_score"`
	PassingPercentage float64        `json:"passing_percentage"`
	AttemptsUsed      int            `json:"attempts_used"`
	AttemptsRemaining *int           `json:"attempts_remaining"`
	Questions         []QuestionView `json:"questions"`
}

type QuestionOutcome struct {
	QuestionID       uint    `json:"question_id"`
	Answered         bool    `json:"answered"`
	SelectedOptionID *uint   `json:"selected_option_id,omitempty"`
	TextAnswer       *string `json:"text_answer,omitempty"`
	IsCorrect        bool    `json:"is_correct"`
	PointsAwarded    int     `json:"points_awarded"`
	Points           int     `json:"points"`
	PendingReview    bool    `json:"pending_review"`
}

type AttemptResult struct {
	AttemptID         uint              `json:"attempt_id"`
	QuizID            uint              `json:"quiz_id"`
	StudentID         string            `json:"student_id"`
	AttemptNumber     int               `json:"attempt_number"`
	Score             int               `json:"score"`
	MaxScore          int               `json:"max_score"`
	Percentage        float64           `json:"percentage"`
	Passed            bool              `json:"passed"`
	AttemptsUsed      int               `json:"attempts_used"`
	AttemptsRemaining *int              `json:"attempts_remaining"`
	CanRetake         bool              `json:"can_retake"`
	StartedAt         time.Time         `json:"started_at"`
	CompletedAt       *time.Time        `json:"completed_at"`
	TimeSpentMinutes  int               `json:"time_spent_minutes"`
	Questions         []QuestionOutcome `json:"questions"`
}

type AttemptSummary struct {
	AttemptID        uint          `json:"attempt_id"`
	AttemptNumber    int           `json:"attempt_number"`
	Status           AttemptStatus `json:"status"`
	Score            int           `json:"score"`
	MaxScore         int           `json:"max_score"`
	Percentage       float64       `json:"percentage"`
	Passed           bool          `json:"passed"`
	StartedAt        time.Time     `json:"started_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	TimeSpentMinutes int           `json:"time_spent_minutes"`
}

type AttemptHistory struct {
	QuizID            uint             `json:"quiz_id"`
	StudentID         string           `json:"student_id"`
	AttemptsUsed      int              `json:"attempts_used"`
	AttemptsRemaining *int             `json:"attempts_remaining"`
	CanRetake         bool             `json:"can_retake"`
	BestPercentage    float64          `json:"best_percentage"`
	Attempts          []AttemptSummary `json:"attempts"`
}

// Summary projects an attempt row for history listings
func (a *QuizAttempt) Summary() AttemptSummary {
	return AttemptSummary{
		AttemptID:        a.ID,
		AttemptNumber:    a.AttemptNumber,
		Status:           a.Status,
		Score:            a.TotalScore,
		MaxScore:         a.MaxScore,
		Percentage:       a.Percentage,
		Passed:           a.IsPassed,
		StartedAt:        a.StartedAt,
		CompletedAt:      a.CompletedAt,
		TimeSpentMinutes: a.TimeSpentMinutes,
	}
}
