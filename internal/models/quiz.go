package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizStatus string

const (
	QuizStatusDraft    QuizStatus = "draft"
	QuizStatusActive   QuizStatus = "active"
	QuizStatusArchived QuizStatus = "archived"
)

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionFreeText     QuestionType = "free_text"
)

type Quiz struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	CourseID    *uint      `json:"course_id" gorm:"index"`
	ModuleID    *uint      `json:"module_id" gorm:"index"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Description *string    `json:"description" gorm:"type:text"`
	Status      QuizStatus `json:"status" gorm:"default:draft;index"`

	PassingPercentage float64 `json:"passing_percentage" gorm:"not null;default:70"`
	DurationMinutes   int     `json:"duration_minutes" gorm:"default:0"` // 0 = untimed
	MaxAttempts       int     `json:"max_attempts" gorm:"not null"`      // 0 = unlimited
	AllowRetake       bool    `json:"allow_retake" gorm:"default:false"`

	// IsFinal marks the quiz that completes its course
	IsFinal bool `json:"is_final" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// IsActive reports whether students may take the quiz
func (q *Quiz) IsActive() bool {
	return q.Status == QuizStatusActive
}

// TotalPoints sums the point value of every question
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// Question looks up a question of this quiz by id
func (q *Quiz) Question(id uint) (*Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i], true
		}
	}
	return nil, false
}

type Question struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	QuizID   uint         `json:"quiz_id" gorm:"not null;index"`
	Text     string       `json:"text" gorm:"not null;type:text"`
	Type     QuestionType `json:"type" gorm:"not null;size:20"`
	Points   int          `json:"points" gorm:"not null;default:1"`
	Position int          `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Options []Option `json:"options" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

// Option looks up an option of this question by id
func (q *Question) Option(id uint) (*Option, bool) {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i], true
		}
	}
	return nil, false
}

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;type:text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	Position   int    `json:"position" gorm:"not null;default:0"`
}

func (Option) TableName() string {
	return "quiz_options"
}
