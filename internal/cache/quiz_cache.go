package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/repositories"
	"go.uber.org/zap"
)

const quizKeyPrefix = "quiz:"

func quizKey(quizID uint) string {
	return fmt.Sprintf("%s%d:full", quizKeyPrefix, quizID)
}

// CachedQuizRepository is a read-through cache in front of the quiz catalog.
// Cache failures fall back to the underlying store.
type CachedQuizRepository struct {
	next   repositories.QuizRepository
	cache  CacheService
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedQuizRepository(next repositories.QuizRepository, cache CacheService, ttl time.Duration, logger *zap.Logger) *CachedQuizRepository {
	return &CachedQuizRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedQuizRepository) GetQuizWithQuestions(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := c.cache.Get(ctx, quizKey(quizID), &quiz)
	if err == nil {
		return &quiz, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("quiz cache read failed, using database", zap.Uint("quiz_id", quizID), zap.Error(err))
	}

	loaded, err := c.next.GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, quizKey(quizID), loaded, c.ttl); err != nil {
		c.logger.Warn("quiz cache write failed", zap.Uint("quiz_id", quizID), zap.Error(err))
	}
	return loaded, nil
}

// InvalidateAll drops every cached quiz
func (c *CachedQuizRepository) InvalidateAll(ctx context.Context) error {
	return c.cache.DeletePattern(ctx, quizKeyPrefix+"*")
}
