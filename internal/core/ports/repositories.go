package ports

import (
	"context"

	"exchange-relay/internal/core/domain"
)

// RelayLogRepository persists relay records.
type RelayLogRepository interface {
	Create(ctx context.Context, log *domain.RelayLog) error
}
