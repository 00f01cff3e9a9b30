package handler

import (
	"exchange-relay/internal/adapter/http/dto"
	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"
	"exchange-relay/pkg/response"

	"github.com/gin-gonic/gin"
)

// ExchangeHandler relays signed and public exchange calls.
type ExchangeHandler struct {
	exchangeSvc ports.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeSvc ports.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeSvc: exchangeSvc}
}

// GetUserAsset handles POST /api/v1/asset/getUserAsset.
func (h *ExchangeHandler) GetUserAsset(c *gin.Context) {
	h.relay(c, ports.OpGetUserAsset)
}

// DustBTC handles POST /api/v1/asset/dust-btc.
func (h *ExchangeHandler) DustBTC(c *gin.Context) {
	h.relay(c, ports.OpDustBTC)
}

// DepositHistory handles POST /api/v1/depositHistory.
func (h *ExchangeHandler) DepositHistory(c *gin.Context) {
	h.relay(c, ports.OpDepositHistory)
}

// AccountSnapshot handles POST /api/v1/accountSnapshot.
func (h *ExchangeHandler) AccountSnapshot(c *gin.Context) {
	h.relay(c, ports.OpAccountSnapshot)
}

// Dust handles POST /api/v1/asset/dust.
func (h *ExchangeHandler) Dust(c *gin.Context) {
	var req dto.DustRequest
	if !bindJSON(c, &req) {
		return
	}
	h.relayWith(c, ports.OpDust, req.Credential(), ports.ExchangeParams{Assets: req.Assets})
}

// ConvertExchangeInfo handles POST /api/v1/exchangeInfo.
func (h *ExchangeHandler) ConvertExchangeInfo(c *gin.Context) {
	var req dto.ConvertPairRequest
	if !bindJSON(c, &req) {
		return
	}
	h.relayWith(c, ports.OpConvertInfo, req.Credential(), ports.ExchangeParams{FromAsset: req.FromAsset, ToAsset: req.ToAsset})
}

// GetQuote handles POST /api/v1/convert/getQuote.
func (h *ExchangeHandler) GetQuote(c *gin.Context) {
	var req dto.GetQuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	h.relayWith(c, ports.OpConvertGetQuote, req.Credential(), req.ExchangeParams())
}

// AcceptQuote handles POST /api/v1/convert/acceptQuote.
func (h *ExchangeHandler) AcceptQuote(c *gin.Context) {
	var req dto.AcceptQuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	h.relayWith(c, ports.OpConvertAcceptQuote, req.Credential(), ports.ExchangeParams{QuoteID: req.QuoteID})
}

// relay serves the operations whose body is only the credential.
func (h *ExchangeHandler) relay(c *gin.Context, op ports.ExchangeOperation) {
	var req dto.CredentialRequest
	if !bindJSON(c, &req) {
		return
	}
	h.relayWith(c, op, req.Credential(), ports.ExchangeParams{})
}

func (h *ExchangeHandler) relayWith(c *gin.Context, op ports.ExchangeOperation, cred domain.Credential, in ports.ExchangeParams) {
	payload, err := h.exchangeSvc.Relay(c.Request.Context(), op, cred, in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Relay(c, payload)
}

// TickerPrice handles POST /api/v1/ticker/price.
func (h *ExchangeHandler) TickerPrice(c *gin.Context) {
	var req dto.TickerRequest
	if !bindJSON(c, &req) {
		return
	}

	payload, err := h.exchangeSvc.TickerPrice(c.Request.Context(), req.Assets)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Relay(c, payload)
}
