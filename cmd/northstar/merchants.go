package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/canadianinsights/northstar/internal/cli"
	"github.com/canadianinsights/northstar/internal/model"

	"github.com/spf13/cobra"
)

func merchantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Manage merchant rules",
		Long: `List, add, update, and delete the merchant rules used by the merchant
tier. A merchant rule covers a primary pattern plus any alternate spellings
seen in statements.`,
	}

	cmd.AddCommand(listMerchantsCmd())
	cmd.AddCommand(addMerchantCmd())
	cmd.AddCommand(updateMerchantCmd())
	cmd.AddCommand(deleteMerchantCmd())

	return cmd
}

func listMerchantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all merchant rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.ListMerchants(ctx)
			if err != nil {
				return fmt.Errorf("failed to list merchant rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No merchant rules found. Use 'northstar merchants add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Pattern"),
				cli.TableHeaderStyle.Render("Alternates"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Label"),
				cli.TableHeaderStyle.Render("Active"))

			for _, rule := range rules {
				alternates := strings.Join(rule.AlternatePatterns, ", ")
				if alternates == "" {
					alternates = cli.SubtleStyle.Render("-")
				}
				active := "yes"
				if !rule.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID, rule.PrimaryPattern, alternates, rule.Category, rule.Label, active)
			}

			return nil
		},
	}
}

func addMerchantCmd() *cobra.Command {
	var (
		label      string
		alternates []string
	)

	cmd := &cobra.Command{
		Use:   "add <pattern> <category>",
		Short: "Add a merchant rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			_, admin := initEngine(store)

			rule := &model.MerchantRule{
				PrimaryPattern:    args[0],
				AlternatePatterns: alternates,
				Category:          args[1],
				Label:             label,
				IsActive:          true,
			}

			if err := admin.CreateMerchant(ctx, rule); err != nil {
				return fmt.Errorf("failed to create merchant rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created merchant rule %q → %s (ID: %d)", rule.PrimaryPattern, rule.Category, rule.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "label to assign on match")
	cmd.Flags().StringArrayVar(&alternates, "alternate", nil, "alternate spelling (repeatable)")

	return cmd
}

func updateMerchantCmd() *cobra.Command {
	var (
		pattern    string
		category   string
		label      string
		active     string
		alternates []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a merchant rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			_, admin := initEngine(store)

			rule, err := store.GetMerchant(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get merchant rule %d: %w", id, err)
			}

			if pattern != "" {
				rule.PrimaryPattern = pattern
			}
			if category != "" {
				rule.Category = category
			}
			if cmd.Flags().Changed("label") {
				rule.Label = label
			}
			if cmd.Flags().Changed("alternate") {
				rule.AlternatePatterns = alternates
			}
			if active != "" {
				rule.IsActive = strings.EqualFold(active, "true") || active == "1"
			}

			if err := admin.UpdateMerchant(ctx, rule); err != nil {
				return fmt.Errorf("failed to update merchant rule %d: %w", id, err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated merchant rule %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "new primary pattern")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringArrayVar(&alternates, "alternate", nil, "replace alternate spellings (repeatable)")
	cmd.Flags().StringVar(&active, "active", "", "set active state (true/false)")

	return cmd
}

func deleteMerchantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a merchant rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			_, admin := initEngine(store)

			if err := admin.DeleteMerchant(ctx, id); err != nil {
				return fmt.Errorf("failed to delete merchant rule %d: %w", id, err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted merchant rule %d", id)))
			return nil
		},
	}
}
