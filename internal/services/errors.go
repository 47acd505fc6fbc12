package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/quiz-attempt-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrValidationFailed = errors.New("validation failed")

	// Quiz specific errors
	ErrQuizNotFound = errors.New("quiz not found")

	// Attempt specific errors
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrAttemptNotOwnedByCaller = errors.New("attempt does not belong to caller")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")
	ErrAttemptNotSubmitted     = errors.New("attempt not submitted yet")
	ErrAttemptLimitExceeded    = errors.New("no attempts remaining")
	ErrAttemptTimeExpired      = errors.New("attempt time has expired")

	// Answer specific errors
	ErrInvalidAnswerReference = errors.New("invalid answer reference")
)

// ===== CUSTOM ERROR TYPES =====

type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// Unwrap lets errors.Is match the attempt ownership sentinel
func (pe *PermissionError) Unwrap() error {
	return ErrAttemptNotOwnedByCaller
}

// AnswerReferenceError names the answer that does not fit the attempt's quiz
type AnswerReferenceError struct {
	QuestionID uint   `json:"question_id"`
	OptionID   *uint  `json:"option_id,omitempty"`
	Reason     string `json:"reason"`
}

func (are *AnswerReferenceError) Error() string {
	if are.OptionID != nil {
		return fmt.Sprintf("invalid answer reference: question %d option %d - %s", are.QuestionID, *are.OptionID, are.Reason)
	}
	return fmt.Sprintf("invalid answer reference: question %d - %s", are.QuestionID, are.Reason)
}

func (are *AnswerReferenceError) Unwrap() error {
	return ErrInvalidAnswerReference
}

// ===== ERROR HELPERS =====

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func NewAnswerReferenceError(questionID uint, optionID *uint, reason string) *AnswerReferenceError {
	return &AnswerReferenceError{
		QuestionID: questionID,
		OptionID:   optionID,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrAttemptNotFound)
}

// IsForbidden checks if error represents a "forbidden" condition
func IsForbidden(err error) bool {
	return errors.Is(err, ErrAttemptNotOwnedByCaller)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrInvalidAnswerReference) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a state conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrAttemptAlreadySubmitted) ||
		errors.Is(err, ErrAttemptNotSubmitted) ||
		errors.Is(err, ErrAttemptLimitExceeded) ||
		errors.Is(err, ErrAttemptTimeExpired)
}
