package handler

import (
	"exchange-relay/internal/adapter/http/dto"
	"exchange-relay/internal/core/ports"
	"exchange-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// InfoHandler relays portfolio and results requests to the info service.
type InfoHandler struct {
	infoSvc ports.InfoService
}

// NewInfoHandler creates a new InfoHandler.
func NewInfoHandler(infoSvc ports.InfoService) *InfoHandler {
	return &InfoHandler{infoSvc: infoSvc}
}

// TrainBullish handles POST /api/v1/portfolio/train-bullish.
func (h *InfoHandler) TrainBullish(c *gin.Context) {
	var req dto.TrainBullishRequest
	if !bindJSON(c, &req) {
		return
	}
	h.fetch(c, ports.OpTrainBullish, req.OvermindAPIKey, req.InfoParams())
}

// Refresh handles POST /api/v1/portfolio/refresh.
func (h *InfoHandler) Refresh(c *gin.Context) {
	h.keyOnly(c, ports.OpPortfolioRefresh)
}

// RefreshModel handles POST /api/v1/portfolio/refresh-model.
func (h *InfoHandler) RefreshModel(c *gin.Context) {
	var req dto.InstrumentRequest
	if !bindJSON(c, &req) {
		return
	}
	h.fetch(c, ports.OpRefreshModel, req.OvermindAPIKey, ports.InfoParams{Instrument: req.Instrument})
}

// Bullish handles POST /api/v1/portfolio/bullish.
func (h *InfoHandler) Bullish(c *gin.Context) {
	h.keyOnly(c, ports.OpPortfolioBullish)
}

// SimulatedTrades handles POST /api/v1/results/simulated-trades.
func (h *InfoHandler) SimulatedTrades(c *gin.Context) {
	h.byAsset(c, ports.OpSimulatedTrades)
}

// AccumulatedRevenue handles POST /api/v1/results/accumulated-revenue.
func (h *InfoHandler) AccumulatedRevenue(c *gin.Context) {
	h.byAsset(c, ports.OpAccumulatedRevenue)
}

func (h *InfoHandler) keyOnly(c *gin.Context, op ports.InfoOperation) {
	var req dto.OvermindKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	h.fetch(c, op, req.OvermindAPIKey, ports.InfoParams{})
}

func (h *InfoHandler) byAsset(c *gin.Context, op ports.InfoOperation) {
	var req dto.AssetResultsRequest
	if !bindJSON(c, &req) {
		return
	}
	h.fetch(c, op, req.OvermindAPIKey, ports.InfoParams{Instrument: req.Asset})
}

func (h *InfoHandler) fetch(c *gin.Context, op ports.InfoOperation, apiKey string, in ports.InfoParams) {
	payload, err := h.infoSvc.Fetch(c.Request.Context(), op, apiKey, in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Relay(c, payload)
}
