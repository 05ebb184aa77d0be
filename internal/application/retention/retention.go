package retention

import (
	"context"
	"time"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/ports"
)

// RunPruneExpiredSessions deletes sessions that expired before now - grace.
// Validation already drops stale rows lazily; this catches the ones never
// presented again. Call periodically (e.g. daily cron).
func RunPruneExpiredSessions(ctx context.Context, sessions ports.SessionStore, now time.Time, grace time.Duration) (pruned int64, err error) {
	if grace < 0 {
		grace = 0
	}
	return sessions.DeleteExpired(ctx, now.Add(-grace))
}
