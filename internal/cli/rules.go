package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knowlyr/datacheck/internal/rules"
)

var listRuleset string

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List rule presets and their rules",
	Long: `List the available rule presets and every rule each one carries, with
its severity and description. Use a preset with 'check --ruleset <name>'
or extend one from a rule configuration file with 'check --rules <file>'.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&listRuleset, "ruleset", "", "list only this preset")
}

func runRules(cmd *cobra.Command, args []string) error {
	names := rules.PresetNames()
	if listRuleset != "" {
		names = []string{listRuleset}
	}

	for _, name := range names {
		rs, err := rules.ForName(name)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d rules)\n", name, rs.Len())
		for _, rule := range rs.All() {
			state := ""
			if !rule.Enabled {
				state = " [disabled]"
			}
			fmt.Printf("  %-28s %-8s %s%s\n", rule.ID, rule.Severity, rule.Description, state)
		}
		fmt.Println()
	}
	return nil
}
