package services

import "github.com/SAP-F-2025/quiz-attempt-service/internal/models"

// AttemptPolicy is the retake policy of one quiz
type AttemptPolicy struct {
	AllowRetake bool
	MaxAttempts int
}

func PolicyFor(quiz *models.Quiz) AttemptPolicy {
	return AttemptPolicy{
		AllowRetake: quiz.AllowRetake,
		MaxAttempts: quiz.MaxAttempts,
	}
}

// Limit is the number of non-abandoned attempts a student may hold. 0 means unlimited.
func (p AttemptPolicy) Limit() int {
	if !p.AllowRetake {
		return 1
	}
	if p.MaxAttempts < 0 {
		return 0
	}
	return p.MaxAttempts
}

// Remaining returns how many attempts are left after used, nil when unlimited
func (p AttemptPolicy) Remaining(used int) *int {
	limit := p.Limit()
	if limit == 0 {
		return nil
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

// CanRetake reports whether another attempt may be started after used ones
func (p AttemptPolicy) CanRetake(used int) bool {
	if !p.AllowRetake {
		return false
	}
	remaining := p.Remaining(used)
	return remaining == nil || *remaining > 0
}
