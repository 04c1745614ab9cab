package apperror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Status maps an error to the HTTP status the handlers answer with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the error body in the {"error", "message"} shape used by every handler.
// Server-side failures are logged and answered with a generic message.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	status := Status(err)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Database("internal server error", err)
	}

	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": appErr.Code, "message": appErr.Message})
}
