package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/S0l0-dev-000/SEO-Tools/internal/config"
)

// cli holds state shared by subcommands once the root has loaded config.
type cli struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "seotools",
		Short:         "SEO tools storefront backend",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			c.cfg = cfg
			c.log = newLogger(cfg)
			return nil
		},
	}
	root.AddCommand(
		newServeCmd(c),
		newMigrateCmd(c),
		newSeedCmd(c),
		newSessionsCmd(c),
	)
	return root
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsProduction() {
		return zerolog.New(os.Stderr).With().Timestamp().Str("service", "seotools").Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
