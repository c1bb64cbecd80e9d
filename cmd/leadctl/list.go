package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nestinghomes/nestinghomes-web/internal/app/bootstrap"
	"github.com/nestinghomes/nestinghomes-web/internal/leads"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		limit int
		since time.Duration
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent leads from Postgres (needs DATABASE_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger()
			pool := bootstrap.ConnectPostgresPool(cmd.Context(), opts.cfg.DatabaseURL, logger)
			if pool == nil {
				return errors.New("DATABASE_URL is not set or the database is unreachable")
			}
			defer pool.Close()

			filter := leads.ListLeadsFilter{Limit: limit}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}
			found, err := leads.NewPostgresRepository(pool).List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printLeads(cmd, found)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of leads")
	cmd.Flags().DurationVar(&since, "since", 0, "only leads newer than this (e.g. 72h)")
	return cmd
}

func printLeads(cmd *cobra.Command, found []*leads.Lead) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tNAME\tEMAIL\tPHONE\tADDRESS")
	for _, lead := range found {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			lead.CreatedAt.Local().Format("2006-01-02 15:04"), lead.Name, lead.Email, lead.Phone, lead.Address)
	}
	return w.Flush()
}
