package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrBadRequest marks malformed input caught by the handlers themselves.
var ErrBadRequest = errors.New("bad request")

// StatusFor maps a domain error to the HTTP status it is reported with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, models.ErrInvalidOption),
		errors.Is(err, models.ErrInvalidPoll),
		errors.Is(err, models.ErrInvalidRecipe),
		errors.Is(err, models.ErrInvalidUser):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrPollClosed), errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrAssistantDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error attached with c.Error as a JSON body.
// Internal errors are logged and reported without their details. Panics are
// recovered the same way.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in handler", "panic", r, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			log.Error("request failed", "path", c.Request.URL.Path, "error", err)
			msg = "Internal Server Error"
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
	}
}
