package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/knowlyr/datacheck/internal/loader"
	"github.com/knowlyr/datacheck/internal/report"
)

var (
	watchRuleset  string
	watchRules    string
	watchDebounce time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-check dataset files as they change",
	Long: `Watch monitors a directory and re-checks any supported dataset file
that is created or modified, printing a one-line summary per run. Writes
are debounced so a file being streamed out is checked once, when it
settles.

Stop with Ctrl-C.

Example:
  datacheck watch ./data
  datacheck watch ./data --ruleset sft --debounce 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchRuleset, "ruleset", "", "preset rule set (default, sft, preference)")
	watchCmd.Flags().StringVar(&watchRules, "rules", "", "external rule configuration file")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "wait this long after the last write before checking")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchRuleset != "" {
		cfg.Ruleset = watchRuleset
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rs, err := resolveRuleSet(ctx, cfg, watchRules)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	fmt.Fprintf(os.Stderr, "Watching %s (%s ruleset), Ctrl-C to stop\n", dir, rs.Name)

	// One debounce timer per path; a write resets the pending timer so a
	// file is checked once after it settles.
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	checkPath := func(path string) {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()

		result, err := checkOne(cfg, rs, path, "", true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", path, err)
			return
		}
		fmt.Fprintf(os.Stderr, "✓ %s: %s\n", path, report.Summary(result))
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\nStopping")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !loader.Supported(event.Name) {
				continue
			}
			path := event.Name
			mu.Lock()
			if timer, exists := pending[path]; exists {
				timer.Reset(watchDebounce)
			} else {
				pending[path] = time.AfterFunc(watchDebounce, func() { checkPath(path) })
			}
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
