package handlers

import (
	"errors"
	"net/http"

	"classquiz/services"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses so clients
// can tell closed-session, invalid-reference and transient failures apart.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrAnswerNotFound),
		errors.Is(err, services.ErrTeacherNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSessionClosed),
		errors.Is(err, services.ErrDuplicateClassCode),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrAnswerNotInQuestion):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
