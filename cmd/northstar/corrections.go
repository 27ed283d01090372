package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/canadianinsights/northstar/internal/cli"
	"github.com/canadianinsights/northstar/internal/model"

	"github.com/spf13/cobra"
)

func correctionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "Inspect and record user corrections",
		Long: `The history tier consults per-user corrections before any rule matching.
These commands mirror what the transaction-edit flow does when a user
manually recategorizes a transaction.`,
	}

	cmd.AddCommand(listCorrectionsCmd())
	cmd.AddCommand(recordCorrectionCmd())

	return cmd
}

func listCorrectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's corrections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			corrections, err := store.ListCorrections(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list corrections: %w", err)
			}

			if len(corrections) == 0 {
				fmt.Println(cli.InfoStyle.Render("No corrections recorded for this user."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Pattern"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Label"),
				cli.TableHeaderStyle.Render("Frequency"),
				cli.TableHeaderStyle.Render("Last used"))

			for _, c := range corrections {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					c.DescriptionPattern, c.CorrectedCategory, c.CorrectedLabel,
					c.Frequency, c.LastUsedAt.Format("2006-01-02 15:04"))
			}

			return nil
		},
	}
}

func recordCorrectionCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "record <user-id> <pattern> <category>",
		Short: "Record a manual recategorization",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			correction := &model.UserCorrection{
				UserID:             args[0],
				DescriptionPattern: args[1],
				CorrectedCategory:  args[2],
				CorrectedLabel:     label,
			}

			if err := store.RecordCorrection(ctx, correction); err != nil {
				return fmt.Errorf("failed to record correction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded correction %q → %s for user %s",
				correction.DescriptionPattern, correction.CorrectedCategory, correction.UserID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "corrected label")

	return cmd
}
