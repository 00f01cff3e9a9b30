package handler

import (
	"errors"
	"net/http"

	"exchange-relay/internal/adapter/http/dto"
	"exchange-relay/internal/adapter/http/middleware"
	"exchange-relay/pkg/apperror"
	"exchange-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes and validates the request body into req, trims its
// strings and writes the error response on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponse{Error: middleware.MsgBodyTooLarge})
			return false
		}
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.TrimStrings(req)
	return true
}
