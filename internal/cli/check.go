package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/report"
)

var (
	schemaFile   string
	inferSchema  bool
	rulesetName  string
	rulesFile    string
	outFormat    string
	outPath      string
	failUnder    float64
	sampleCount  int
	sampleRate   float64
	sampleSeed   int64
	nearThresh   float64
	ngramSize    int
	textField    string
	anomalyMode  string
	llmEnabled   bool
	llmProvider  string
	llmModel     string
	llmMinScore  int
	llmCacheDir  string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check one dataset file and generate a quality report",
	Long: `Check evaluates a single dataset file (.json, .jsonl, or .csv):
- Run the rule set over every sample
- Find exact and near duplicates
- Flag statistical anomalies in numeric fields and text lengths
- Aggregate into a rated report

The command exits non-zero when the pass rate lands below --fail-under,
which is what makes it usable as a CI gate.

Example:
  datacheck check train.jsonl
  datacheck check train.jsonl --schema schema.yaml --format html --output report.html
  datacheck check train.jsonl --ruleset sft --fail-under 0.9
  datacheck check train.jsonl --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Schema flags
	checkCmd.Flags().StringVar(&schemaFile, "schema", "", "explicit schema file (json or yaml)")
	checkCmd.Flags().BoolVar(&inferSchema, "infer-schema", true, "infer a schema when none is supplied")

	// Rule flags
	checkCmd.Flags().StringVar(&rulesetName, "ruleset", "", "preset rule set (default, sft, preference)")
	checkCmd.Flags().StringVar(&rulesFile, "rules", "", "external rule configuration file")

	// Output flags
	checkCmd.Flags().StringVar(&outFormat, "format", "", "report format (markdown, json, html)")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "report output path (default: stdout)")

	// Gate and sampling flags
	checkCmd.Flags().Float64Var(&failUnder, "fail-under", 0, "exit non-zero below this pass rate (0-1)")
	checkCmd.Flags().IntVar(&sampleCount, "sample-count", 0, "evaluate a random subset of N samples")
	checkCmd.Flags().Float64Var(&sampleRate, "sample-rate", 0, "evaluate a random fraction of samples (0-1)")
	checkCmd.Flags().Int64Var(&sampleSeed, "seed", 0, "sampling seed (0: derive from time)")

	// Detection flags
	checkCmd.Flags().Float64Var(&nearThresh, "near-threshold", 0, "near-duplicate Jaccard threshold (0-1)")
	checkCmd.Flags().IntVar(&ngramSize, "ngram", 0, "n-gram size for near-duplicate detection")
	checkCmd.Flags().StringVar(&textField, "text-field", "", "field to compare for near-duplicates (default: all text fields)")
	checkCmd.Flags().StringVar(&anomalyMode, "anomaly-method", "", "anomaly detection method (iqr, zscore)")

	// LLM flags
	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM quality grading")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	checkCmd.Flags().IntVar(&llmMinScore, "llm-min-score", 0, "grade (1-5) required to pass the LLM rule")
	checkCmd.Flags().StringVar(&llmCacheDir, "llm-cache-dir", "", "disk cache directory for LLM grades")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyCheckFlags(cfg)
	if llmEnabled {
		if err := applyLLMFlags(cfg, llmProvider, llmModel, llmMinScore, llmCacheDir); err != nil {
			return err
		}
	}

	rs, err := resolveRuleSet(context.Background(), cfg, rulesFile)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", path)
		fmt.Fprintf(os.Stderr, "Ruleset:  %s (%d rules)\n\n", rs.Name, rs.Len())
	}

	result, err := checkOne(cfg, rs, path, schemaFile, inferSchema)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	rendered, err := report.Render(result, filepath.Base(path), cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := writeOutput(outPath, rendered); err != nil {
		return err
	}
	if outPath != "" || cfg.Output.Format != report.FormatJSON {
		fmt.Fprintln(os.Stderr, report.Summary(result))
	}

	if result.PassRate < cfg.Check.FailUnder {
		return fmt.Errorf("pass rate %.1f%% below threshold %.1f%%",
			result.PassRate*100, cfg.Check.FailUnder*100)
	}
	return nil
}

// applyCheckFlags lays the check command's flags over the resolved config
func applyCheckFlags(cfg *model.Config) {
	if rulesetName != "" {
		cfg.Ruleset = rulesetName
	}
	if outFormat != "" {
		cfg.Output.Format = outFormat
	}
	if failUnder > 0 {
		cfg.Check.FailUnder = failUnder
	}
	if sampleCount > 0 {
		cfg.Check.SampleCount = sampleCount
	}
	if sampleRate > 0 {
		cfg.Check.SampleRate = sampleRate
	}
	if sampleSeed != 0 {
		cfg.Check.Seed = sampleSeed
	}
	if nearThresh > 0 {
		cfg.Dedup.NearThreshold = nearThresh
	}
	if ngramSize > 0 {
		cfg.Dedup.NGramSize = ngramSize
	}
	if textField != "" {
		cfg.Dedup.TextField = textField
	}
	if anomalyMode != "" {
		cfg.Anomaly.Method = anomalyMode
	}
}
