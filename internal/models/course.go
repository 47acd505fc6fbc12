package models

import "time"

// Lesson is the slice of the course catalog the certificate check reads
type Lesson struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	ModuleID *uint  `json:"module_id" gorm:"index"`
	Title    string `json:"title" gorm:"not null;size:200"`
	Position int    `json:"position" gorm:"default:0"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type LessonProgress struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   string     `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_student_lesson,priority:1"`
	LessonID    uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_student_lesson,priority:2"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
