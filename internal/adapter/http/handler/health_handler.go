package handler

import (
	"net/http"

	"exchange-relay/internal/adapter/http/dto"
	"exchange-relay/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /health. With no checkers configured the relay
// reports healthy; otherwise every dependency is pinged.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps := make(map[string]dto.DependencyStatus, len(checkers))
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = dto.DependencyStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = dto.DependencyStatus{Status: "healthy"}
			}
		}

		resp := dto.HealthResponse{Status: "healthy", Dependencies: deps}
		httpCode := http.StatusOK
		if !allHealthy {
			resp.Status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, resp)
	}
}
