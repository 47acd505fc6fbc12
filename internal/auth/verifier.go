package auth

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenVerifier turns a bearer token into the calling principal
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.Principal, error)
}

func normalizeRole(role string) models.UserRole {
	switch models.UserRole(role) {
	case models.RoleTeacher, models.RoleAdmin:
		return models.UserRole(role)
	}
	return models.RoleStudent
}
