package dto

import (
	"encoding/json"

	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"
)

// Fields tagged trim:"-" are keys and are passed on exactly as received.

// OvermindKeyRequest is the body of the news relay and of the info relays
// that take no other input.
type OvermindKeyRequest struct {
	OvermindAPIKey string `json:"overmindApiKey" binding:"required,notblank,max=256" trim:"-"`
}

// InstrumentRequest selects the instrument of a model refresh.
type InstrumentRequest struct {
	OvermindKeyRequest
	Instrument string `json:"instrument" binding:"required,symbol"`
}

// AssetResultsRequest selects the instrument of a results query. The field
// is named asset on the wire.
type AssetResultsRequest struct {
	OvermindKeyRequest
	Asset string `json:"asset" binding:"required,symbol"`
}

// TrainBullishRequest starts a training run of the bullish portfolio model.
type TrainBullishRequest struct {
	OvermindKeyRequest
	Iterations      int     `json:"iterations" binding:"required,min=1,max=100000"`
	MaxTradeHorizon int     `json:"maxTradeHorizon" binding:"required,min=1,max=10000"`
	TPPercentage    float64 `json:"tpPercentage" binding:"required,gt=0,lte=100"`
	SLPercentage    float64 `json:"slPercentage" binding:"required,gt=0,lte=100"`
}

// InfoParams converts the request into service inputs.
func (r TrainBullishRequest) InfoParams() ports.InfoParams {
	return ports.InfoParams{
		Iterations:      r.Iterations,
		MaxTradeHorizon: r.MaxTradeHorizon,
		TPPercentage:    r.TPPercentage,
		SLPercentage:    r.SLPercentage,
	}
}

// CredentialRequest is the request body for every signed exchange relay.
// The secret is used for signing only and is never forwarded.
type CredentialRequest struct {
	APIKey    string `json:"apiKey" binding:"required,notblank,max=256" trim:"-"`
	APISecret string `json:"apiSecret" binding:"required,notblank,max=256" trim:"-"`
}

// Credential converts the request into the domain credential.
func (r CredentialRequest) Credential() domain.Credential {
	return domain.Credential{APIKey: r.APIKey, APISecret: r.APISecret}
}

// DustRequest converts small balances of assets to BNB.
type DustRequest struct {
	CredentialRequest
	Assets []string `json:"assets" binding:"required,min=1,max=100,dive,symbol"`
}

// ConvertPairRequest names a conversion pair.
type ConvertPairRequest struct {
	CredentialRequest
	FromAsset string `json:"fromAsset" binding:"required,symbol"`
	ToAsset   string `json:"toAsset" binding:"required,symbol"`
}

// GetQuoteRequest asks for a conversion quote. fromAmount may be sent as a
// JSON number or a numeric string.
type GetQuoteRequest struct {
	ConvertPairRequest
	FromAmount json.Number `json:"fromAmount" binding:"required,amount"`
}

// ExchangeParams converts the request into service inputs.
func (r GetQuoteRequest) ExchangeParams() ports.ExchangeParams {
	return ports.ExchangeParams{FromAsset: r.FromAsset, ToAsset: r.ToAsset, FromAmount: r.FromAmount.String()}
}

// AcceptQuoteRequest accepts a previously issued quote.
type AcceptQuoteRequest struct {
	CredentialRequest
	QuoteID string `json:"quoteId" binding:"required,alphanum,max=64"`
}

// TickerRequest is the request body for the public ticker relay.
type TickerRequest struct {
	Assets []string `json:"assets" binding:"required,min=1,max=100,dive,symbol"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus reports a single dependency.
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
