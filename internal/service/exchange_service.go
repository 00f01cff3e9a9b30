package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"
	"exchange-relay/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	// HeaderAPIKey carries the caller's exchange API key upstream.
	HeaderAPIKey = "X-MBX-APIKEY"

	// RouteTicker names the public ticker relay.
	RouteTicker = "tickerPrice"

	tickerPath         = "/api/v3/ticker/price"
	depositHistorySpan = 30 * 24 * time.Hour
)

// exchangeEndpoint describes one signed exchange call. params builds the
// operation-specific parameters from the caller's inputs; timestamp and
// recvWindow are added by Relay.
type exchangeEndpoint struct {
	method string
	path   string
	params func(now time.Time, in ports.ExchangeParams) (url.Values, error)
}

var exchangeEndpoints = map[ports.ExchangeOperation]exchangeEndpoint{
	ports.OpGetUserAsset: {
		method: http.MethodPost,
		path:   "/sapi/v3/asset/getUserAsset",
		params: func(time.Time, ports.ExchangeParams) (url.Values, error) {
			return url.Values{"needBtcValuation": {"true"}}, nil
		},
	},
	ports.OpDustBTC: {
		method: http.MethodPost,
		path:   "/sapi/v1/asset/dust-btc",
	},
	ports.OpDust: {
		method: http.MethodPost,
		path:   "/sapi/v1/asset/dust",
		params: func(_ time.Time, in ports.ExchangeParams) (url.Values, error) {
			assets := normalizeAssets(in.Assets)
			if len(assets) == 0 {
				return nil, apperror.Validation("at least one asset is required")
			}
			return url.Values{"asset": {strings.Join(assets, ",")}}, nil
		},
	},
	ports.OpDepositHistory: {
		method: http.MethodGet,
		path:   "/sapi/v1/capital/deposit/hisrec",
		params: func(now time.Time, _ ports.ExchangeParams) (url.Values, error) {
			return url.Values{"startTime": {strconv.FormatInt(now.Add(-depositHistorySpan).UnixMilli(), 10)}}, nil
		},
	},
	ports.OpAccountSnapshot: {
		method: http.MethodGet,
		path:   "/sapi/v1/accountSnapshot",
		params: func(time.Time, ports.ExchangeParams) (url.Values, error) {
			return url.Values{"type": {"SPOT"}, "limit": {"7"}}, nil
		},
	},
	ports.OpConvertInfo: {
		method: http.MethodGet,
		path:   "/sapi/v1/convert/exchangeInfo",
		params: func(_ time.Time, in ports.ExchangeParams) (url.Values, error) {
			return convertPair(in)
		},
	},
	ports.OpConvertGetQuote: {
		method: http.MethodPost,
		path:   "/sapi/v1/convert/getQuote",
		params: func(_ time.Time, in ports.ExchangeParams) (url.Values, error) {
			params, err := convertPair(in)
			if err != nil {
				return nil, err
			}
			amount := strings.TrimSpace(in.FromAmount)
			if amount == "" {
				return nil, apperror.Validation("fromAmount is required")
			}
			params.Set("fromAmount", amount)
			return params, nil
		},
	},
	ports.OpConvertAcceptQuote: {
		method: http.MethodPost,
		path:   "/sapi/v1/convert/acceptQuote",
		params: func(_ time.Time, in ports.ExchangeParams) (url.Values, error) {
			id := strings.TrimSpace(in.QuoteID)
			if id == "" {
				return nil, apperror.Validation("quoteId is required")
			}
			return url.Values{"quoteId": {id}}, nil
		},
	},
}

func convertPair(in ports.ExchangeParams) (url.Values, error) {
	from := strings.ToUpper(strings.TrimSpace(in.FromAsset))
	to := strings.ToUpper(strings.TrimSpace(in.ToAsset))
	if from == "" || to == "" {
		return nil, apperror.Validation("fromAsset and toAsset are required")
	}
	return url.Values{"fromAsset": {from}, "toAsset": {to}}, nil
}

func normalizeAssets(assets []string) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		if a = strings.ToUpper(strings.TrimSpace(a)); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// ExchangeConfig configures the exchange relay.
type ExchangeConfig struct {
	BaseURL      string
	RecvWindowMs int64         // 0 = not sent
	TickerTTL    time.Duration // 0 = ticker responses are not cached
}

type exchangeService struct {
	forwarder ports.Forwarder
	sigSvc    ports.SignatureService
	cache     ports.ResponseCache // nil = no caching
	metrics   ports.RelayMetrics  // nil = no metrics
	cfg       ExchangeConfig
	log       zerolog.Logger
	now       func() time.Time
}

// NewExchangeService creates the exchange relay. cache and metrics may be nil.
func NewExchangeService(
	forwarder ports.Forwarder,
	sigSvc ports.SignatureService,
	cache ports.ResponseCache,
	metrics ports.RelayMetrics,
	cfg ExchangeConfig,
	log zerolog.Logger,
) ports.ExchangeService {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &exchangeService{
		forwarder: forwarder,
		sigSvc:    sigSvc,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Relay signs and forwards op for cred. Only the derived signature and the
// API key header leave the process; the secret is never sent.
func (s *exchangeService) Relay(ctx context.Context, op ports.ExchangeOperation, cred domain.Credential, in ports.ExchangeParams) (json.RawMessage, error) {
	ep, ok := exchangeEndpoints[op]
	if !ok {
		return nil, apperror.InternalError(fmt.Errorf("unknown exchange operation %q", op))
	}
	if cred.APIKey == "" || cred.APISecret == "" {
		return nil, apperror.Validation("apiKey and apiSecret are required")
	}

	now := s.now()
	params := url.Values{}
	if ep.params != nil {
		built, err := ep.params(now, in)
		if err != nil {
			return nil, err
		}
		params = built
	}
	params.Set("timestamp", strconv.FormatInt(now.UnixMilli(), 10))
	if s.cfg.RecvWindowMs > 0 {
		params.Set("recvWindow", strconv.FormatInt(s.cfg.RecvWindowMs, 10))
	}

	query := SignedQuery(s.sigSvc, cred.APISecret, params)

	resp, err := s.forwarder.Forward(ctx, ports.ForwardRequest{
		Route:          string(op),
		Method:         ep.method,
		URL:            s.cfg.BaseURL + ep.path + "?" + query,
		Headers:        map[string]string{HeaderAPIKey: cred.APIKey},
		KeyFingerprint: cred.Fingerprint(),
	})
	if err != nil {
		return nil, err
	}
	if op == ports.OpConvertGetQuote && !resp.OK() {
		return quoteRejection(resp.Payload, params), nil
	}
	return resp.Payload, nil
}

// TickerPrice looks up public prices for symbols. One symbol is sent as
// symbol=X, several as symbols=["X","Y"]. Only 2xx payloads are cached; an
// upstream error body is relayed once and the next call goes upstream again.
func (s *exchangeService) TickerPrice(ctx context.Context, symbols []string) (json.RawMessage, error) {
	if len(symbols) == 0 {
		return nil, apperror.Validation("at least one asset is required")
	}
	normalized := make([]string, len(symbols))
	for i, sym := range symbols {
		normalized[i] = strings.ToUpper(strings.TrimSpace(sym))
	}

	params := url.Values{}
	if len(normalized) == 1 {
		params.Set("symbol", normalized[0])
	} else {
		encoded, err := json.Marshal(normalized)
		if err != nil {
			return nil, apperror.InternalError(err)
		}
		params.Set("symbols", string(encoded))
	}

	cacheKey := "ticker:" + strings.Join(normalized, ",")
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return json.RawMessage(cached), nil
	}

	resp, err := s.forwarder.Forward(ctx, ports.ForwardRequest{
		Route:  RouteTicker,
		Method: http.MethodGet,
		URL:    s.cfg.BaseURL + tickerPath + "?" + params.Encode(),
	})
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		s.cacheSet(ctx, cacheKey, resp.Payload)
	} else {
		s.log.Warn().Int("status", resp.StatusCode).Str("key", cacheKey).Msg("ticker upstream error, not cached")
	}
	return resp.Payload, nil
}

// cacheGet returns nil on a miss, on error, or when caching is disabled.
func (s *exchangeService) cacheGet(ctx context.Context, key string) []byte {
	if s.cache == nil || s.cfg.TickerTTL <= 0 {
		return nil
	}
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("ticker cache read failed, calling upstream")
		return nil
	}
	if s.metrics != nil {
		s.metrics.ObserveCache(RouteTicker, val != nil)
	}
	return val
}

func (s *exchangeService) cacheSet(ctx context.Context, key string, payload []byte) {
	if s.cache == nil || s.cfg.TickerTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cfg.TickerTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("ticker cache write failed")
	}
}
