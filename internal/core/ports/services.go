package ports

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"exchange-relay/internal/core/domain"
)

// SignatureService signs canonicalised request parameters.
type SignatureService interface {
	// Sign returns the lowercase hex signature of params under secret.
	Sign(secret string, params url.Values) string
	// Verify checks signature against params in constant time.
	Verify(secret string, params url.Values, signature string) bool
	// Scheme names the algorithm ("sha256" or "hmac").
	Scheme() string
}

// ForwardRequest describes one outbound upstream call.
type ForwardRequest struct {
	Route          string // inbound route name, for logs and metrics
	Method         string
	URL            string
	Body           interface{} // JSON-encoded when non-nil
	Headers        map[string]string
	KeyFingerprint string // identifies the caller without the key
}

// ForwardResponse is a relayed upstream answer whose body is valid JSON.
type ForwardResponse struct {
	Payload    json.RawMessage
	StatusCode int
}

// OK reports whether the upstream answered with a 2xx status.
func (r *ForwardResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Forwarder performs a single upstream call and returns its JSON payload.
// Errors are *apperror.AppError values safe to render to the caller.
type Forwarder interface {
	Forward(ctx context.Context, req ForwardRequest) (*ForwardResponse, error)
}

// ResponseCache stores upstream payloads for a short time.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RelayMetrics receives relay and cache observations.
type RelayMetrics interface {
	ObserveRelay(route string, outcome domain.RelayOutcome, duration time.Duration)
	ObserveCache(route string, hit bool)
}

// AuditService records relay outcomes.
type AuditService interface {
	Record(ctx context.Context, entry *domain.RelayLog)
}

// --- Service Ports (Business Logic) ---

// NewsService relays news requests to the internal info service.
type NewsService interface {
	FetchNews(ctx context.Context, apiKey string) (json.RawMessage, error)
}

// ExchangeOperation names a signed exchange endpoint.
type ExchangeOperation string

const (
	OpGetUserAsset       ExchangeOperation = "getUserAsset"
	OpDustBTC            ExchangeOperation = "dustBtc"
	OpDust               ExchangeOperation = "dust"
	OpDepositHistory     ExchangeOperation = "depositHistory"
	OpAccountSnapshot    ExchangeOperation = "accountSnapshot"
	OpConvertInfo        ExchangeOperation = "convertExchangeInfo"
	OpConvertGetQuote    ExchangeOperation = "convertGetQuote"
	OpConvertAcceptQuote ExchangeOperation = "convertAcceptQuote"
)

// ExchangeParams carries caller-supplied inputs of a signed operation.
// Each operation reads only the fields it needs.
type ExchangeParams struct {
	Assets     []string // dust
	FromAsset  string   // convert
	ToAsset    string   // convert
	FromAmount string   // convert quote, decimal text
	QuoteID    string   // convert accept
}

// ExchangeService relays requests to the exchange API.
type ExchangeService interface {
	// Relay performs a signed call for op on behalf of cred.
	Relay(ctx context.Context, op ExchangeOperation, cred domain.Credential, in ExchangeParams) (json.RawMessage, error)
	// TickerPrice performs the unsigned public ticker lookup.
	TickerPrice(ctx context.Context, symbols []string) (json.RawMessage, error)
}

// InfoOperation names an info service endpoint behind the caller's
// overmind key.
type InfoOperation string

const (
	OpTrainBullish       InfoOperation = "trainBullish"
	OpPortfolioRefresh   InfoOperation = "portfolioRefresh"
	OpRefreshModel       InfoOperation = "refreshModel"
	OpPortfolioBullish   InfoOperation = "portfolioBullish"
	OpSimulatedTrades    InfoOperation = "simulatedTrades"
	OpAccumulatedRevenue InfoOperation = "accumulatedRevenue"
)

// InfoParams carries caller-supplied inputs of an info service call.
type InfoParams struct {
	Instrument      string
	Iterations      int
	MaxTradeHorizon int
	TPPercentage    float64
	SLPercentage    float64
}

// InfoService relays portfolio and results requests to the info service.
type InfoService interface {
	Fetch(ctx context.Context, op InfoOperation, apiKey string, in InfoParams) (json.RawMessage, error)
}
