package postgres

import (
	"context"
	"fmt"

	"exchange-relay/internal/core/domain"
)

// RelayLogRepo implements ports.RelayLogRepository.
type RelayLogRepo struct {
	pool Pool
}

// NewRelayLogRepo creates a new RelayLogRepo.
func NewRelayLogRepo(pool Pool) *RelayLogRepo {
	return &RelayLogRepo{pool: pool}
}

// Create inserts one relay log row.
func (r *RelayLogRepo) Create(ctx context.Context, log *domain.RelayLog) error {
	query := `INSERT INTO relay_logs (id, route, upstream, outcome, status_code, key_fingerprint, latency_ms, request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		log.ID, log.Route, log.Upstream, string(log.Outcome), log.StatusCode,
		log.KeyFingerprint, log.LatencyMs, log.RequestID, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert relay log: %w", err)
	}
	return nil
}
