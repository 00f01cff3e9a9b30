package service

import (
	"context"
	"time"

	"exchange-relay/internal/core/domain"
	"exchange-relay/internal/core/ports"

	"github.com/rs/zerolog"
)

// persistTimeout bounds a single relay record insert.
const persistTimeout = 5 * time.Second

type auditService struct {
	repo ports.RelayLogRepository
	log  zerolog.Logger
}

// NewAuditService creates the relay record service.
// If repo is nil, records are only written to the logger.
func NewAuditService(repo ports.RelayLogRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record logs a relay outcome and persists it asynchronously (fire-and-forget).
// The inbound request context is not used for the insert because it is
// cancelled as soon as the response is written.
func (s *auditService) Record(_ context.Context, entry *domain.RelayLog) {
	go func() {
		s.log.Info().
			Str("route", entry.Route).
			Str("upstream", entry.Upstream).
			Str("outcome", string(entry.Outcome)).
			Int("status", entry.StatusCode).
			Str("key_fp", entry.KeyFingerprint).
			Int64("latency_ms", entry.LatencyMs).
			Str("request_id", entry.RequestID).
			Msg("relay")

		if s.repo == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("route", entry.Route).Msg("failed to persist relay log")
		}
	}()
}
