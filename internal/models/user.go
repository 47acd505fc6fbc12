package models

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Principal is the authenticated caller of a request. User records live in the identity
// provider; this service only sees the token claims.
type Principal struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name,omitempty"`
	Role   UserRole `json:"role"`
}

// CanReadAnyAttempt reports whether the caller may read attempts of other students
func (p Principal) CanReadAnyAttempt() bool {
	return p.Role == RoleTeacher || p.Role == RoleAdmin
}

// AllModels lists every table the service migrates
func AllModels() []interface{} {
	return []interface{}{
		&Quiz{},
		&Question{},
		&Option{},
		&QuizAttempt{},
		&AttemptAnswer{},
		&Lesson{},
		&LessonProgress{},
	}
}
