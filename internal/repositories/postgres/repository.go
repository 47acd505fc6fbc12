package postgres

import (
	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	quiz     repositories.QuizRepository
	attempt  repositories.AttemptRepository
	progress repositories.ProgressRepository
}

// NewRepository wires the gorm-backed stores. quiz may be nil to use the plain catalog store.
func NewRepository(db *gorm.DB, quiz repositories.QuizRepository) repositories.Repository {
	if quiz == nil {
		quiz = NewQuizPostgreSQL(db)
	}
	return &repository{
		quiz:     quiz,
		attempt:  NewAttemptPostgreSQL(db),
		progress: NewProgressPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *repository) Progress() repositories.ProgressRepository { return r.progress }

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.AllModels()...)
}
