package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) IsCourseOtherwiseComplete(ctx context.Context, studentID string, courseID uint) (bool, error) {
	var missing int64
	err := p.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Joins("LEFT JOIN lesson_progress lp ON lp.lesson_id = lessons.id AND lp.student_id = ?", studentID).
		Where("lessons.course_id = ?", courseID).
		Where("lp.id IS NULL OR lp.is_completed = ?", false).
		Count(&missing).Error
	if err != nil {
		return false, err
	}
	return missing == 0, nil
}
