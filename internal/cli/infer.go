package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/knowlyr/datacheck/internal/infer"
	"github.com/knowlyr/datacheck/internal/loader"
)

var (
	inferFormat string
	inferOut    string
)

// inferCmd represents the infer command
var inferCmd = &cobra.Command{
	Use:   "infer <file>",
	Short: "Infer a schema from a dataset file",
	Long: `Infer examines every sample in a dataset file and derives a schema:
field types by majority vote, required fields, nullability, string length
and numeric bounds, and enum candidates for low-cardinality fields.

The output is a starting point for a hand-maintained schema, not a
contract; review it before committing it.

Example:
  datacheck infer train.jsonl
  datacheck infer train.jsonl --format json --output schema.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfer,
}

func init() {
	rootCmd.AddCommand(inferCmd)

	inferCmd.Flags().StringVar(&inferFormat, "format", "yaml", "output format (yaml, json)")
	inferCmd.Flags().StringVarP(&inferOut, "output", "o", "", "schema output path (default: stdout)")
}

func runInfer(cmd *cobra.Command, args []string) error {
	path := args[0]

	samples, _, err := loader.Load(path)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples in %s", path)
	}

	schema := infer.Infer(samples)

	var rendered []byte
	switch inferFormat {
	case "yaml":
		rendered, err = yaml.Marshal(schema)
	case "json":
		rendered, err = json.MarshalIndent(schema, "", "  ")
	default:
		return fmt.Errorf("unknown format %q (expected yaml or json)", inferFormat)
	}
	if err != nil {
		return fmt.Errorf("render schema: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Inferred schema from %d samples, %d fields\n",
			len(samples), len(schema.Fields))
	}
	return writeOutput(inferOut, string(rendered))
}
