package handlers

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/auth"
	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/gin-gonic/gin"
)

// parseIDParam writes a 400 and returns 0 when the path parameter is not a positive id
func parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID must be a positive integer",
			Code:    "INVALID_ID",
		})
		return 0
	}
	return uint(id)
}

// requirePrincipal writes a 401 when the request carries no authenticated principal
func requirePrincipal(c *gin.Context) (models.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
			Code:    "UNAUTHENTICATED",
		})
		return models.Principal{}, false
	}
	return principal, true
}
