package domain

import (
	"time"

	"github.com/google/uuid"
)

// RelayOutcome is the terminal state of one forwarded call.
type RelayOutcome string

const (
	RelayOutcomeSuccess        RelayOutcome = "SUCCESS"
	RelayOutcomeTransportError RelayOutcome = "TRANSPORT_ERROR"
	RelayOutcomeParseError     RelayOutcome = "PARSE_ERROR"
)

// RelayLog records one relayed call. It carries a key fingerprint, never the
// key or secret.
type RelayLog struct {
	ID             uuid.UUID    `json:"id"`
	Route          string       `json:"route"`
	Upstream       string       `json:"upstream"`
	Outcome        RelayOutcome `json:"outcome"`
	StatusCode     int          `json:"status_code"`
	KeyFingerprint string       `json:"key_fingerprint,omitempty"`
	LatencyMs      int64        `json:"latency_ms"`
	RequestID      string       `json:"request_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// IsSuccess reports whether the upstream payload was relayed.
func (l *RelayLog) IsSuccess() bool {
	return l.Outcome == RelayOutcomeSuccess
}
