package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"
	"exchange-relay/pkg/apperror"
	"exchange-relay/pkg/requestid"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxUpstreamBody caps how much of an upstream response is read.
const maxUpstreamBody = 8 << 20

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// forwarder implements ports.Forwarder.
type forwarder struct {
	httpClient HTTPClient
	auditSvc   ports.AuditService // nil = no relay records
	metrics    ports.RelayMetrics // nil = no metrics
	log        zerolog.Logger
}

// NewForwarder creates the upstream forwarder. auditSvc and metrics may be nil.
func NewForwarder(httpClient HTTPClient, auditSvc ports.AuditService, metrics ports.RelayMetrics, log zerolog.Logger) ports.Forwarder {
	return &forwarder{
		httpClient: httpClient,
		auditSvc:   auditSvc,
		metrics:    metrics,
		log:        log,
	}
}

// Forward sends req upstream and returns the response body when it is valid
// JSON, together with the upstream status. Transport failures become UPS_001
// and non-JSON bodies UPS_002; a JSON body is relayed whatever the status,
// and callers that persist payloads check ForwardResponse.OK first.
func (f *forwarder) Forward(ctx context.Context, req ports.ForwardRequest) (*ports.ForwardResponse, error) {
	start := time.Now()

	payload, status, outcome, err := f.do(ctx, req)

	f.observe(ctx, req, outcome, status, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &ports.ForwardResponse{Payload: payload, StatusCode: status}, nil
}

func (f *forwarder) do(ctx context.Context, req ports.ForwardRequest) (json.RawMessage, int, domain.RelayOutcome, error) {
	log := f.log.With().
		Str("route", req.Route).
		Str("upstream", upstreamName(req.URL)).
		Str("key_fp", req.KeyFingerprint).
		Str("request_id", requestid.FromContext(ctx)).
		Logger()

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			log.Error().Err(err).Msg("forward: failed to encode request body")
			return nil, 0, domain.RelayOutcomeTransportError, apperror.ErrUpstreamUnavailable(fmt.Errorf("encoding body: %w", err))
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		log.Error().Err(err).Msg("forward: failed to create request")
		return nil, 0, domain.RelayOutcomeTransportError, apperror.ErrUpstreamUnavailable(err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Msg("forward: upstream request failed")
		return nil, 0, domain.RelayOutcomeTransportError, apperror.ErrUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody+1))
	if err != nil {
		log.Error().Err(err).Int("status", resp.StatusCode).Msg("forward: reading upstream body failed")
		return nil, resp.StatusCode, domain.RelayOutcomeTransportError, apperror.ErrUpstreamUnavailable(err)
	}

	if len(raw) > maxUpstreamBody || !json.Valid(raw) {
		log.Warn().Int("status", resp.StatusCode).Int("bytes", len(raw)).Msg("forward: upstream body is not JSON")
		return nil, resp.StatusCode, domain.RelayOutcomeParseError, apperror.ErrUpstreamParse()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Msg("forward: upstream returned non-2xx, relaying body")
	} else {
		log.Debug().Int("status", resp.StatusCode).Msg("forward: relayed")
	}

	return json.RawMessage(raw), resp.StatusCode, domain.RelayOutcomeSuccess, nil
}

func (f *forwarder) observe(ctx context.Context, req ports.ForwardRequest, outcome domain.RelayOutcome, status int, elapsed time.Duration) {
	if f.metrics != nil {
		f.metrics.ObserveRelay(req.Route, outcome, elapsed)
	}
	if f.auditSvc != nil {
		f.auditSvc.Record(ctx, &domain.RelayLog{
			ID:             uuid.New(),
			Route:          req.Route,
			Upstream:       upstreamName(req.URL),
			Outcome:        outcome,
			StatusCode:     status,
			KeyFingerprint: req.KeyFingerprint,
			LatencyMs:      elapsed.Milliseconds(),
			RequestID:      requestid.FromContext(ctx),
			CreatedAt:      time.Now().UTC(),
		})
	}
}

// upstreamName strips the query string (which carries signatures) from rawURL.
func upstreamName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host + u.Path
}
