package service

import (
	"context"
	"encoding/json"
	"net/http"

	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"
)

// RouteNews names the news relay in logs, metrics and relay records.
const RouteNews = "news"

// NewsRequest is the body forwarded to the info service.
type NewsRequest struct {
	OvermindAPIKey string `json:"overmindApiKey"`
}

type newsService struct {
	forwarder ports.Forwarder
	newsURL   string
}

// NewNewsService creates the news relay. It never signs.
func NewNewsService(forwarder ports.Forwarder, newsURL string) ports.NewsService {
	return &newsService{forwarder: forwarder, newsURL: newsURL}
}

// FetchNews posts the caller's key to the info service and returns its payload.
func (s *newsService) FetchNews(ctx context.Context, apiKey string) (json.RawMessage, error) {
	resp, err := s.forwarder.Forward(ctx, ports.ForwardRequest{
		Route:          RouteNews,
		Method:         http.MethodPost,
		URL:            s.newsURL,
		Body:           NewsRequest{OvermindAPIKey: apiKey},
		KeyFingerprint: domain.KeyFingerprint(apiKey),
	})
	if err != nil {
		return nil, err
	}
	return resp.Payload, nil
}
