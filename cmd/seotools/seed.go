package main

import (
	"github.com/spf13/cobra"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/catalog"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/db"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/persistence/postgres"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the built-in tool catalog by slug",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := openPostgres(ctx, c.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			n, err := catalog.New(postgres.NewToolRepository(db.New(pool))).Seed(ctx)
			if err != nil {
				return err
			}
			c.log.Info().Int("tools", n).Msg("catalog seeded")
			return nil
		},
	}
}
