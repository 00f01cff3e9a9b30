package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"exchange-relay/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the gin context key holding the request id.
const CtxRequestID = "request_id"

// ErrorResponse is the failure envelope returned to relay callers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Relay writes an upstream JSON payload back to the caller unchanged.
func Relay(c *gin.Context, payload json.RawMessage) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}

	// Unknown error -> 500
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// RequestID retrieves the request id from context, or generates one.
func RequestID(c *gin.Context) string {
	if id, exists := c.Get(CtxRequestID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
