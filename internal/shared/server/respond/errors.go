package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// StatusError is implemented by errors that know how they are rendered.
type StatusError interface {
	error
	HTTPStatus() int
	ErrorCode() string
	UserMessage() string
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	write(c, status, code, message, details, nil)
}

// FromError renders err, using its StatusError fields when available.
// Any other error becomes a 500 with a generic message.
func FromError(c *gin.Context, err error) {
	var se StatusError
	if errors.As(err, &se) {
		write(c, se.HTTPStatus(), se.ErrorCode(), se.UserMessage(), nil, err)
		return
	}
	write(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil, err)
}

func write(c *gin.Context, status int, code, message string, details interface{}, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.Set("errorCode", code)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
