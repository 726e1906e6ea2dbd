package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knowlyr/datacheck/internal/fixer"
	"github.com/knowlyr/datacheck/internal/loader"
	"github.com/knowlyr/datacheck/internal/model"
)

var (
	fixOut        string
	fixDuplicates bool
	fixEmpty      bool
	fixTrim       bool
	fixRedact     bool
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix <file>",
	Short: "Apply mechanical fixes to a dataset file",
	Long: `Fix applies mechanical repairs to a dataset and writes the result as
JSONL. Available fixes:
- remove exact duplicate samples (first occurrence survives)
- remove samples whose content fields are all empty
- trim leading and trailing whitespace from string values
- redact detected PII (emails, phone numbers, national IDs)

With no fix flags every fix is applied. The input file is never modified.
Fixes are mechanical only; anything needing judgment is reported by
check, not repaired here.

Example:
  datacheck fix train.jsonl -o train.clean.jsonl
  datacheck fix train.jsonl --dedup --trim -o out.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().StringVarP(&fixOut, "output", "o", "", "fixed dataset output path (default: stdout)")
	fixCmd.Flags().BoolVar(&fixDuplicates, "dedup", false, "remove exact duplicate samples")
	fixCmd.Flags().BoolVar(&fixEmpty, "remove-empty", false, "remove samples with no content")
	fixCmd.Flags().BoolVar(&fixTrim, "trim", false, "trim whitespace from string values")
	fixCmd.Flags().BoolVar(&fixRedact, "strip-pii", false, "redact detected PII")
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]

	opts := fixer.Options{
		RemoveDuplicates: fixDuplicates,
		RemoveEmpty:      fixEmpty,
		TrimWhitespace:   fixTrim,
		RedactPII:        fixRedact,
	}
	if opts == (fixer.Options{}) {
		opts = fixer.AllFixes()
	}

	samples, _, err := loader.Load(path)
	if err != nil {
		return err
	}

	fixed, rep := fixer.Fix(samples, opts)

	rendered, err := renderJSONL(fixed)
	if err != nil {
		return err
	}
	if err := writeOutput(fixOut, rendered); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Kept %d of %d samples", rep.Kept, rep.Original)
	var details []string
	if n := len(rep.RemovedDuplicates); n > 0 {
		details = append(details, fmt.Sprintf("%d duplicates removed", n))
	}
	if n := len(rep.RemovedEmpty); n > 0 {
		details = append(details, fmt.Sprintf("%d empty removed", n))
	}
	if rep.TrimmedValues > 0 {
		details = append(details, fmt.Sprintf("%d values trimmed", rep.TrimmedValues))
	}
	if rep.RedactedSpans > 0 {
		details = append(details, fmt.Sprintf("%d PII spans redacted", rep.RedactedSpans))
	}
	if len(details) > 0 {
		fmt.Fprintf(os.Stderr, " (%s)", strings.Join(details, ", "))
	}
	fmt.Fprintln(os.Stderr)

	if !rep.Changed() {
		fmt.Fprintln(os.Stderr, "Nothing to fix")
	}
	return nil
}

// renderJSONL serializes samples one JSON object per line
func renderJSONL(samples []model.Sample) (string, error) {
	var b strings.Builder
	for i, sample := range samples {
		raw, err := json.Marshal(sample)
		if err != nil {
			return "", fmt.Errorf("encode sample %d: %w", i, err)
		}
		b.Write(raw)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
