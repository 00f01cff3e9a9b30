package middleware

import (
	"time"

	"exchange-relay/pkg/requestid"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin, method and header. The relay carries no cookies,
// so credentials stay disabled.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{requestid.Header},
		MaxAge:          12 * time.Hour,
	})
}
