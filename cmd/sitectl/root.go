package main

import (
	"github.com/spf13/cobra"

	appconfig "github.com/vantrung/equipment-site/internal/config"
	"github.com/vantrung/equipment-site/pkg/logging"
)

// cli carries state shared by every subcommand.
type cli struct {
	cfg         *appconfig.Config
	logger      *logging.Logger
	databaseURL string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Operate the equipment site database and cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.cfg = appconfig.Load()
			if c.databaseURL != "" {
				c.cfg.DatabaseURL = c.databaseURL
			}
			level := c.cfg.LogLevel
			if c.verbose {
				level = "debug"
			}
			c.logger = logging.NewWithWriter(level, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&c.databaseURL, "database-url", "", "Postgres URL (default: DATABASE_URL)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newMigrateCmd(c))
	root.AddCommand(newSeedCmd(c))
	root.AddCommand(newCacheCmd(c))
	return root
}
