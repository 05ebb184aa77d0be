package retention

import (
	"context"
	"testing"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPruneExpiredSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()
	uid := domain.NewUserID(uuid.New())
	for i, exp := range []time.Duration{-48 * time.Hour, -time.Hour, time.Hour} {
		require.NoError(t, store.Sessions().Create(ctx, &domain.Session{
			ID:        domain.NewSessionID(uuid.New()),
			UserID:    uid,
			Token:     uuid.NewString(),
			ExpiresAt: now.Add(exp),
		}), i)
	}

	n, err := RunPruneExpiredSessions(ctx, store.Sessions(), now, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = RunPruneExpiredSessions(ctx, store.Sessions(), now, -time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
