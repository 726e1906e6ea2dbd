package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/report"
)

var (
	diffFormat string
	diffOut    string
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <before.json> <after.json>",
	Short: "Compare two check results",
	Long: `Diff compares two JSON check reports (produced with --format json) and
shows how every metric and rule moved between them. Use it to verify that
a dataset cleanup actually improved quality.

Example:
  datacheck check v1.jsonl --format json -o before.json
  datacheck check v2.jsonl --format json -o after.json
  datacheck diff before.json after.json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffFormat, "format", "markdown", "output format (markdown, json)")
	diffCmd.Flags().StringVarP(&diffOut, "output", "o", "", "diff output path (default: stdout)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	before, err := readResult(args[0])
	if err != nil {
		return err
	}
	after, err := readResult(args[1])
	if err != nil {
		return err
	}

	d := report.Diff(before, after)

	var rendered string
	switch diffFormat {
	case "markdown":
		rendered = report.RenderDiff(d)
	case "json":
		raw, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("render diff: %w", err)
		}
		rendered = string(raw) + "\n"
	default:
		return fmt.Errorf("unknown format %q (expected markdown or json)", diffFormat)
	}

	if err := writeOutput(diffOut, rendered); err != nil {
		return err
	}

	if d.Improved() {
		fmt.Fprintln(os.Stderr, "Quality improved")
	}
	return nil
}

// readResult loads a JSON check report from disk
func readResult(path string) (*model.CheckResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	var result model.CheckResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &result, nil
}
