package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nestinghomes/nestinghomes-web/internal/leadform"
)

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	values := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a lead to /api/lead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := leadform.NewForm()
			for _, field := range leadform.Fields {
				if err := form.Update(field, *values[field]); err != nil {
					return err
				}
			}
			if err := form.Validate(); err != nil {
				return fmt.Errorf("invalid lead: %w", err)
			}

			client, err := leadform.New(leadform.Config{
				BaseURL: opts.server,
				Timeout: opts.timeout,
				Logger:  opts.logger(),
				Notifier: leadform.NotifierFunc(func(msg string) {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
				}),
			})
			if err != nil {
				return err
			}

			outcome := client.Submit(cmd.Context(), form)
			if !outcome.Submitted() {
				if outcome.Err != nil {
					return fmt.Errorf("submit failed: %w", outcome.Err)
				}
				return errors.New("submit failed")
			}

			out, err := json.MarshalIndent(outcome.Response, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lead submitted to %s (HTTP %d)\n%s\n", client.Endpoint(), outcome.StatusCode, out)
			return nil
		},
	}
	for _, field := range leadform.Fields {
		values[field] = cmd.Flags().String(field, "", "lead "+field)
	}
	_ = cmd.MarkFlagRequired(leadform.FieldName)
	_ = cmd.MarkFlagRequired(leadform.FieldEmail)
	return cmd
}
