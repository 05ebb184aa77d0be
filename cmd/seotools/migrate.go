package main

import (
	"github.com/spf13/cobra"

	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/migrations"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPostgres(ctx, c.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := migrations.Up(ctx, pool); err != nil {
				return err
			}
			c.log.Info().Msg("migrations applied")
			return nil
		},
	}
}
