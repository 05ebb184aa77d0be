package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/retention"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/db"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/postgres"
)

func newSessionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Session maintenance",
	}
	var grace time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete sessions that expired more than --grace ago",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPostgres(ctx, c.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			n, err := retention.RunPruneExpiredSessions(ctx, postgres.NewSessionStore(db.New(pool)), time.Now(), grace)
			if err != nil {
				return err
			}
			c.log.Info().Int64("pruned", n).Msg("expired sessions pruned")
			return nil
		},
	}
	prune.Flags().DurationVar(&grace, "grace", 0, "keep sessions that expired less than this long ago")
	cmd.AddCommand(prune)
	return cmd
}
