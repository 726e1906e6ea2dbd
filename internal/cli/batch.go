package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/knowlyr/datacheck/internal/loader"
	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/report"
	"github.com/knowlyr/datacheck/internal/rules"
	"github.com/knowlyr/datacheck/internal/worker"
)

var (
	concurrency    int
	reportDir      string
	batchTimeout   time.Duration
	batchFailUnder float64
	batchRuleset   string
	batchRules     string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Check every dataset file in a directory in parallel",
	Long: `Batch checks all supported dataset files (.json, .jsonl, .csv) in a
directory:
- Files are processed in parallel with a configurable worker count
- Files that fail to load are skipped and listed, not fatal
- Per-file reports can be written to an output directory
- A combined summary decides the exit code

Example:
  datacheck batch ./data
  datacheck batch ./data --concurrency 8 --output-dir ./reports
  datacheck batch ./data --ruleset sft --fail-under 0.9`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&reportDir, "output-dir", "", "write a per-file report into this directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Inherit flags from check command
	batchCmd.Flags().Float64Var(&batchFailUnder, "fail-under", 0, "exit non-zero below this combined pass rate (0-1)")
	batchCmd.Flags().StringVar(&batchRuleset, "ruleset", "", "preset rule set (default, sft, preference)")
	batchCmd.Flags().StringVar(&batchRules, "rules", "", "external rule configuration file")
}

// batchChecker adapts the single-file check to the worker pool
type batchChecker struct {
	cfg *model.Config
	rs  *rules.RuleSet
}

func (c *batchChecker) CheckFile(_ context.Context, path string) (*model.CheckResult, error) {
	return checkOne(c.cfg, c.rs, path, "", true)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchRuleset != "" {
		cfg.Ruleset = batchRuleset
	}
	if batchFailUnder > 0 {
		cfg.Check.FailUnder = batchFailUnder
	}

	rs, err := resolveRuleSet(ctx, cfg, batchRules)
	if err != nil {
		return err
	}

	files, err := loader.CollectFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported dataset files in %s", dir)
	}

	fmt.Fprintf(os.Stderr, "Checking %d files with %d workers (%s ruleset)\n\n",
		len(files), concurrency, rs.Name)

	if reportDir != "" {
		if err := os.MkdirAll(reportDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	processor := worker.NewBatchProcessor(&batchChecker{cfg: cfg, rs: rs}, concurrency)
	outcomes := processor.ProcessFiles(ctx, files)

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Path, outcome.Err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %s\n", outcome.Path, report.Summary(outcome.Result))

		if reportDir != "" {
			rendered, err := report.Render(outcome.Result, filepath.Base(outcome.Path), cfg.Output.Format)
			if err != nil {
				return err
			}
			name := reportFilename(outcome.Path, cfg.Output.Format)
			if err := os.WriteFile(filepath.Join(reportDir, name), []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("write report for %s: %w", outcome.Path, err)
			}
		}
	}

	batch := worker.Summarize(dir, outcomes, cfg.Check.FailUnder)

	fmt.Fprintf(os.Stderr, "\n%s", report.RenderBatch(batch))

	if batch.PassRate < cfg.Check.FailUnder {
		return fmt.Errorf("combined pass rate %.1f%% below threshold %.1f%%",
			batch.PassRate*100, cfg.Check.FailUnder*100)
	}
	return nil
}

// reportFilename derives a report file name from a dataset path
func reportFilename(path, format string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	ext := ".md"
	switch format {
	case report.FormatJSON:
		ext = ".json"
	case report.FormatHTML:
		ext = ".html"
	}
	return base + ext
}
