// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/company-lens/internal/analyze"
	"github.com/pdiddy/company-lens/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <company-number>",
	Short: "Run the six-dimension analysis for one company",
	Long: `Analyze fetches a company's public registers and scores the six behavioral
dimensions. Numeric input is zero-padded ("1234567" means "01234567");
Scottish, Northern Irish, LLP, and other prefixed numbers pass through.

Output is a summary table by default; --format json or --format yaml emits
the full evidence. --stream prints dimension results as they finish instead
of waiting for the whole run.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "table", "output format: table, json, or yaml")
	analyzeCmd.Flags().Bool("stream", false, "print results as each dimension finishes")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stream, _ := cmd.Flags().GetBool("stream")
	if stream {
		return streamAnalysis(cmd, a, args[0])
	}

	run, err := a.analyzer.RunAll(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "":
		printRunTable(run)
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(run)
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}
}

func streamAnalysis(cmd *cobra.Command, a *app, number string) error {
	events, err := a.analyzer.Run(cmd.Context(), number)
	if err != nil {
		return err
	}

	for ev := range events {
		switch ev.Type {
		case analyze.EventProfile:
			fmt.Printf("%s (%s) — %s, incorporated %s\n",
				ev.Profile.CompanyName, ev.Profile.CompanyNumber,
				ev.Profile.CompanyStatus, ev.Profile.DateOfCreation)
			if ev.PriorRuns > 0 {
				fmt.Printf("  analyzed %d time(s) before\n", ev.PriorRuns)
			}
		case analyze.EventDimension:
			d := ev.Dimension
			fmt.Printf("[%s] %s: %s\n", ratingLabel(d.Rating), d.Title, d.Summary)
		case analyze.EventError:
			return fmt.Errorf("%s", ev.Error.Message)
		case analyze.EventComplete:
			fmt.Printf("done in %s\n", formatElapsed(ev.Complete.ElapsedSeconds))
		}
	}
	return nil
}

func printRunTable(run *types.AnalysisRun) {
	fmt.Printf("%s (%s)\n", run.Profile.CompanyName, run.Profile.CompanyNumber)
	fmt.Printf("Status: %s  Type: %s  Incorporated: %s\n\n",
		run.Profile.CompanyStatus, run.Profile.Kind, run.Profile.DateOfCreation)

	fmt.Printf("%-12s  %-24s  %s\n", "Rating", "Dimension", "Summary")
	fmt.Println(strings.Repeat("-", 90))
	for _, d := range run.Dimensions {
		summary := d.Summary
		if len(summary) > 50 {
			summary = summary[:47] + "..."
		}
		fmt.Printf("%-12s  %-24s  %s\n", ratingLabel(d.Rating), d.Title, summary)
	}

	if failed := run.FailedDimensions(); len(failed) > 0 {
		fmt.Printf("\nIncomplete dimensions: %v — rerun later or check connectivity\n", failed)
	}
	fmt.Printf("\nRun %s finished in %s\n", run.Metadata.RunID, formatElapsed(run.Metadata.ElapsedSeconds))
}

func ratingLabel(r types.Rating) string {
	switch r {
	case types.RatingClean:
		return "clean"
	case types.RatingInvestigate:
		return "INVESTIGATE"
	case types.RatingRedFlag:
		return "RED FLAG"
	}
	return string(r)
}
