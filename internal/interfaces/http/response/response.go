package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	domainerrors "doc-check.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response, translating domain errors to HTTP statuses.
// Bare sentinels coming straight from a repository map the same way as their
// AppError wrappers.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			appErr = domainerrors.NotFound("resource not found")
		case errors.Is(err, domainerrors.ErrStateConflict):
			appErr = domainerrors.StateConflict(err.Error())
		case errors.Is(err, domainerrors.ErrInvalidInput):
			appErr = domainerrors.BadRequest(err.Error())
		case errors.Is(err, domainerrors.ErrUnauthorized):
			appErr = domainerrors.Unauthorized(err.Error())
		case errors.Is(err, domainerrors.ErrForbidden):
			appErr = domainerrors.Forbidden(err.Error())
		default:
			appErr = domainerrors.InternalError(err)
		}
	}

	c.JSON(appErr.Code, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
