package handler

import (
	"exchange-relay/internal/adapter/http/dto"
	"exchange-relay/internal/core/ports"
	"exchange-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// NewsHandler relays news requests to the info service.
type NewsHandler struct {
	newsSvc ports.NewsService
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsSvc ports.NewsService) *NewsHandler {
	return &NewsHandler{newsSvc: newsSvc}
}

// FetchNews handles POST /api/v1/info/news.
func (h *NewsHandler) FetchNews(c *gin.Context) {
	var req dto.OvermindKeyRequest
	if !bindJSON(c, &req) {
		return
	}

	payload, err := h.newsSvc.FetchNews(c.Request.Context(), req.OvermindAPIKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Relay(c, payload)
}
