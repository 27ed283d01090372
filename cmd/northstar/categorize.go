package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/canadianinsights/northstar/internal/cli"
	"github.com/canadianinsights/northstar/internal/model"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	var (
		userID   string
		filePath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "categorize [description]",
		Short: "Categorize transaction descriptions",
		Long: `Run the three-tier decision procedure (user history, merchant patterns,
keyword rules) against one description, or against every line of a file
with --file, the way the statement-import pipeline does in bulk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if filePath == "" && len(args) == 0 {
				return fmt.Errorf("provide a description or --file")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, _ := initEngine(store)

			if filePath != "" {
				return categorizeFile(cmd, eng, userID, filePath, asJSON)
			}

			decision, err := eng.Categorize(ctx, userID, args[0])
			if err != nil {
				return fmt.Errorf("failed to categorize: %w", err)
			}

			return printDecision(args[0], decision, asJSON)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID for the history tier (optional)")
	cmd.Flags().StringVar(&filePath, "file", "", "file with one description per line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit decisions as JSON")

	return cmd
}

func categorizeFile(cmd *cobra.Command, eng categorizer, userID, filePath string, asJSON bool) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open descriptions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	descriptions, err := readLines(f)
	if err != nil {
		return fmt.Errorf("failed to read descriptions file: %w", err)
	}

	bar := progressbar.NewOptions(len(descriptions),
		progressbar.OptionSetDescription("Categorizing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	matched := 0
	for _, description := range descriptions {
		decision, err := eng.Categorize(cmd.Context(), userID, description)
		if err != nil {
			return fmt.Errorf("failed to categorize %q: %w", description, err)
		}
		if decision.Matched() {
			matched++
		}
		if err := printDecision(description, decision, asJSON); err != nil {
			return err
		}
		_ = bar.Add(1)
	}

	fmt.Fprintln(os.Stderr, cli.FormatSuccess(
		fmt.Sprintf("Categorized %d descriptions, %d matched", len(descriptions), matched)))
	return nil
}

func readLines(f *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func printDecision(description string, decision model.Decision, asJSON bool) error {
	if asJSON {
		out := struct {
			Description string `json:"description"`
			model.Decision
		}{Description: description, Decision: decision}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal decision: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if !decision.Matched() {
		fmt.Printf("%s %s\n", cli.SubtleStyle.Render("(no match)"), description)
		return nil
	}

	label := decision.Label
	if label != "" {
		label = " / " + label
	}
	fmt.Printf("%s%s  %s %s\n",
		cli.InfoStyle.Render(decision.Category),
		label,
		cli.SubtleStyle.Render("["+string(decision.MatchedTier)+"]"),
		description)
	return nil
}
