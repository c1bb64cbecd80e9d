package main

import (
	"time"

	"github.com/spf13/cobra"

	appconfig "github.com/nestinghomes/nestinghomes-web/internal/config"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

type rootOptions struct {
	cfg      *appconfig.Config
	server   string
	timeout  time.Duration
	logLevel string
}

func (o *rootOptions) logger() *logging.Logger {
	return logging.NewWithOptions(logging.Options{Level: o.logLevel, Format: "text"})
}

func newRootCmd(cfg *appconfig.Config) *cobra.Command {
	opts := &rootOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "leadctl",
		Short: "Operate the Nesting Homes lead intake",
		Long: `leadctl talks to the Nesting Homes website backend.

Examples:
  leadctl submit --name "Jane Owner" --email jane@example.com --message "Duplex in Downey"
  leadctl schema
  leadctl list --limit 20`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", cfg.PublicBaseURL, "base URL of the site backend")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.LeadClientTimeout, "request timeout")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSubmitCmd(opts),
		newSchemaCmd(opts),
		newListCmd(opts),
	)
	return cmd
}
