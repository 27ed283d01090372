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

func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage keyword rules",
		Long:  `List, add, update, and delete the keyword rules used by the keyword tier.`,
	}

	cmd.AddCommand(listKeywordsCmd())
	cmd.AddCommand(addKeywordCmd())
	cmd.AddCommand(updateKeywordCmd())
	cmd.AddCommand(deleteKeywordCmd())

	return cmd
}

func listKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keyword rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.ListKeywords(ctx)
			if err != nil {
				return fmt.Errorf("failed to list keyword rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No keyword rules found. Use 'northstar keywords add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Keyword"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Label"),
				cli.TableHeaderStyle.Render("Lang"),
				cli.TableHeaderStyle.Render("Active"))

			for _, rule := range rules {
				active := "yes"
				if !rule.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID, rule.Keyword, rule.Category, rule.Label, rule.Language, active)
			}

			return nil
		},
	}
}

func addKeywordCmd() *cobra.Command {
	var (
		label    string
		language string
	)

	cmd := &cobra.Command{
		Use:   "add <keyword> <category>",
		Short: "Add a keyword rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			_, admin := initEngine(store)

			rule := &model.KeywordRule{
				Keyword:  args[0],
				Category: args[1],
				Label:    label,
				Language: model.RuleLanguage(language),
				IsActive: true,
			}

			if err := admin.CreateKeyword(ctx, rule); err != nil {
				return fmt.Errorf("failed to create keyword rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created keyword rule %q → %s (ID: %d)", rule.Keyword, rule.Category, rule.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "label to assign on match")
	cmd.Flags().StringVar(&language, "language", string(model.LanguageBoth), "rule language (en, fr, both)")

	return cmd
}

func updateKeywordCmd() *cobra.Command {
	var (
		keyword  string
		category string
		label    string
		language string
		active   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a keyword rule",
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

			rule, err := store.GetKeyword(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get keyword rule %d: %w", id, err)
			}

			if keyword != "" {
				rule.Keyword = keyword
			}
			if category != "" {
				rule.Category = category
			}
			if cmd.Flags().Changed("label") {
				rule.Label = label
			}
			if language != "" {
				rule.Language = model.RuleLanguage(language)
			}
			if active != "" {
				rule.IsActive = strings.EqualFold(active, "true") || active == "1"
			}

			if err := admin.UpdateKeyword(ctx, rule); err != nil {
				return fmt.Errorf("failed to update keyword rule %d: %w", id, err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated keyword rule %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&keyword, "keyword", "", "new keyword")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&language, "language", "", "new language (en, fr, both)")
	cmd.Flags().StringVar(&active, "active", "", "set active state (true/false)")

	return cmd
}

func deleteKeywordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a keyword rule",
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

			if err := admin.DeleteKeyword(ctx, id); err != nil {
				return fmt.Errorf("failed to delete keyword rule %d: %w", id, err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted keyword rule %d", id)))
			return nil
		},
	}
}
