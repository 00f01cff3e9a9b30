package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"exchange-relay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRelayLog() *domain.RelayLog {
	return &domain.RelayLog{
		ID:             uuid.New(),
		Route:          "getUserAsset",
		Upstream:       "api3.binance.com/sapi/v3/asset/getUserAsset",
		Outcome:        domain.RelayOutcomeSuccess,
		StatusCode:     200,
		KeyFingerprint: domain.KeyFingerprint("my-api-key"),
		LatencyMs:      42,
		RequestID:      "req-1",
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRelayLogRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRelayLogRepo(mock)
	log := sampleRelayLog()

	mock.ExpectExec("INSERT INTO relay_logs").
		WithArgs(log.ID, log.Route, log.Upstream, "SUCCESS", log.StatusCode,
			log.KeyFingerprint, log.LatencyMs, log.RequestID, log.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), log)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelayLogRepo_Create_NoRawKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRelayLogRepo(mock)
	log := sampleRelayLog()
	assert.NotContains(t, log.KeyFingerprint, "my-api-key")

	mock.ExpectExec("INSERT INTO relay_logs").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			log.KeyFingerprint, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), log))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelayLogRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRelayLogRepo(mock)
	log := sampleRelayLog()
	log.Outcome = domain.RelayOutcomeTransportError

	mock.ExpectExec("INSERT INTO relay_logs").
		WillReturnError(errors.New("relation \"relay_logs\" does not exist"))

	err = repo.Create(context.Background(), log)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert relay log")
}
