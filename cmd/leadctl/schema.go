package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nestinghomes/nestinghomes-web/internal/site"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the schema.org JSON-LD for the business",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := site.NestingHomes.WithBaseURL(opts.server).MarshalStructuredData(!compact)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print on a single line")
	return cmd
}
