package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"
	"exchange-relay/pkg/apperror"
)

// infoEndpoint is one GET on the info service. params may be nil.
type infoEndpoint struct {
	path   string
	params func(in ports.InfoParams) (url.Values, error)
}

var infoEndpoints = map[ports.InfoOperation]infoEndpoint{
	ports.OpTrainBullish: {
		path: "/v1/portfolio/train-bullish",
		params: func(in ports.InfoParams) (url.Values, error) {
			if in.Iterations <= 0 || in.MaxTradeHorizon <= 0 || in.TPPercentage <= 0 || in.SLPercentage <= 0 {
				return nil, apperror.Validation("iterations, maxTradeHorizon, tpPercentage and slPercentage must be positive")
			}
			return url.Values{
				"iterations":      {strconv.Itoa(in.Iterations)},
				"maxTradeHorizon": {strconv.Itoa(in.MaxTradeHorizon)},
				"tpPercentage":    {strconv.FormatFloat(in.TPPercentage, 'f', -1, 64)},
				"slPercentage":    {strconv.FormatFloat(in.SLPercentage, 'f', -1, 64)},
			}, nil
		},
	},
	ports.OpPortfolioRefresh: {path: "/v1/portfolio/refresh"},
	ports.OpRefreshModel: {
		path:   "/v1/portfolio/refresh-model",
		params: instrumentParam,
	},
	ports.OpPortfolioBullish: {path: "/v1/results/portfolio-bullish"},
	ports.OpSimulatedTrades: {
		path:   "/v1/results/simulated-trades",
		params: instrumentParam,
	},
	ports.OpAccumulatedRevenue: {
		path:   "/v1/results/accumulated-revenue",
		params: instrumentParam,
	},
}

func instrumentParam(in ports.InfoParams) (url.Values, error) {
	instrument := strings.ToUpper(strings.TrimSpace(in.Instrument))
	if instrument == "" {
		return nil, apperror.Validation("instrument is required")
	}
	return url.Values{"instrument": {instrument}}, nil
}

type infoService struct {
	forwarder ports.Forwarder
	baseURL   string
}

// NewInfoService creates the portfolio and results relay. The caller's
// overmind key travels as a bearer token.
func NewInfoService(forwarder ports.Forwarder, baseURL string) ports.InfoService {
	return &infoService{forwarder: forwarder, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *infoService) Fetch(ctx context.Context, op ports.InfoOperation, apiKey string, in ports.InfoParams) (json.RawMessage, error) {
	ep, ok := infoEndpoints[op]
	if !ok {
		return nil, apperror.InternalError(fmt.Errorf("unknown info operation %q", op))
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperror.Validation("overmindApiKey is required")
	}

	target := s.baseURL + ep.path
	if ep.params != nil {
		params, err := ep.params(in)
		if err != nil {
			return nil, err
		}
		target += "?" + params.Encode()
	}

	resp, err := s.forwarder.Forward(ctx, ports.ForwardRequest{
		Route:          string(op),
		Method:         http.MethodGet,
		URL:            target,
		Headers:        map[string]string{"Authorization": "Bearer " + apiKey},
		KeyFingerprint: domain.KeyFingerprint(apiKey),
	})
	if err != nil {
		return nil, err
	}
	return resp.Payload, nil
}
