package middleware

import (
	"net/http"

	"exchange-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// MsgBodyTooLarge is returned when an inbound body exceeds the limit.
const MsgBodyTooLarge = "request body too large"

// MaxBodySize limits the inbound request body. Requests that declare a
// larger Content-Length are rejected with 413 before reaching a handler;
// streamed bodies are cut off by http.MaxBytesReader and fail to bind.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, response.ErrorResponse{Error: MsgBodyTooLarge})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
