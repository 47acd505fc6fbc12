package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/reports"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/services"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// StartAttempt starts a new attempt on a quiz
// @Summary Start attempt
// @Tags attempts
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 201 {object} models.AttemptSnapshot
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id}/start [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	quizID := parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Starting quiz attempt", "quiz_id", quizID)

	snapshot, err := h.attemptService.StartAttempt(c.Request.Context(), quizID, principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// SubmitAttempt grades and finalizes an attempt
// @Summary Submit attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param submission body models.SubmitAttemptRequest true "Answers"
// @Success 200 {object} models.AttemptResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /quizzes/{id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	quizID := parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req models.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Submitting quiz attempt", "quiz_id", quizID, "attempt_id", req.AttemptID, "answers", len(req.Answers))

	result, err := h.attemptService.SubmitAttempt(c.Request.Context(), quizID, &req, principal.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAttemptResult returns the graded result of a submitted attempt
// @Summary Get attempt result
// @Tags attempts
// @Produce json
// @Param attemptId path uint true "Attempt ID"
// @Success 200 {object} models.AttemptResult
// @Router /quizzes/attempts/{attemptId} [get]
func (h *AttemptHandler) GetAttemptResult(c *gin.Context) {
	attemptID := parseIDParam(c, "attemptId")
	if attemptID == 0 {
		return
	}
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.attemptService.GetAttemptResult(c.Request.Context(), attemptID, principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAttempts returns the attempt history of a student on a quiz, newest first.
// Teachers and admins may pass student_id to read another student's history.
// @Summary List attempts
// @Tags attempts
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param student_id query string false "Student ID"
// @Success 200 {object} models.AttemptHistory
// @Router /quizzes/{id}/attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	quizID := parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	history, err := h.attemptService.ListAttempts(c.Request.Context(), quizID, c.Query("student_id"), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// ExportAttempts downloads the attempt history as a spreadsheet
// @Summary Export attempts
// @Tags attempts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Quiz ID"
// @Param student_id query string false "Student ID"
// @Router /quizzes/{id}/attempts/export [get]
func (h *AttemptHandler) ExportAttempts(c *gin.Context) {
	quizID := parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	data, err := h.attemptService.ExportAttempts(c.Request.Context(), quizID, c.Query("student_id"), principal)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%d-attempts.xlsx"`, quizID))
	c.Data(http.StatusOK, reports.ContentTypeXLSX, data)
}

func (h *AttemptHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err, validationErrors)
		return
	}

	var referenceError *services.AnswerReferenceError
	if errors.As(err, &referenceError) {
		h.RespondWithError(c, http.StatusBadRequest, "INVALID_ANSWER_REFERENCE", "Invalid answer reference", err, referenceError)
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, "ATTEMPT_NOT_OWNED", "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		h.RespondWithError(c, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found", err)
	case errors.Is(err, services.ErrAttemptNotFound):
		h.RespondWithError(c, http.StatusNotFound, "ATTEMPT_NOT_FOUND", "Attempt not found", err)
	case errors.Is(err, services.ErrAttemptLimitExceeded):
		h.RespondWithError(c, http.StatusConflict, "ATTEMPT_LIMIT_EXCEEDED", "no attempts remaining", err)
	case errors.Is(err, services.ErrAttemptAlreadySubmitted):
		h.RespondWithError(c, http.StatusConflict, "ATTEMPT_ALREADY_SUBMITTED", "Attempt already submitted", err)
	case errors.Is(err, services.ErrAttemptNotSubmitted):
		h.RespondWithError(c, http.StatusConflict, "ATTEMPT_NOT_SUBMITTED", "Attempt has not been submitted yet", err)
	case errors.Is(err, services.ErrAttemptTimeExpired):
		h.RespondWithError(c, http.StatusConflict, "ATTEMPT_TIME_EXPIRED", "Attempt time has expired", err)
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", err)
	case services.IsForbidden(err):
		h.RespondWithError(c, http.StatusForbidden, "FORBIDDEN", "Access denied", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "CONFLICT", "Resource conflict", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
	}
}
