package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/knowlyr/datacheck/internal/engine"
	"github.com/knowlyr/datacheck/internal/infer"
	"github.com/knowlyr/datacheck/internal/llmcheck"
	"github.com/knowlyr/datacheck/internal/loader"
	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/rules"
)

// loadConfig resolves the runtime configuration: defaults, then the config
// file viper located, then environment. Flags override on top in each
// command.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Output.Verbose = verbose
	return cfg, nil
}

// resolveRuleSet builds the rule set for a run: an external rule file when
// given, else the named preset. The optional LLM quality rule is appended
// last so it runs after the cheap rules.
func resolveRuleSet(ctx context.Context, cfg *model.Config, rulesFile string) (*rules.RuleSet, error) {
	var rs *rules.RuleSet
	var err error
	if rulesFile != "" {
		rs, err = rules.LoadFile(rulesFile)
	} else {
		rs, err = rules.ForName(cfg.Ruleset)
	}
	if err != nil {
		return nil, err
	}

	if cfg.LLM.Provider != "" {
		provider, err := llmcheck.NewProvider(llmcheck.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, err
		}
		qc := llmcheck.NewQualityChecker(provider, llmcheck.ConfigFromModel(cfg.LLM))
		if err := rs.Add(qc.MakeRule(ctx)); err != nil {
			return nil, err
		}
	}

	return rs, nil
}

// applyLLMFlags fills in the LLM provider settings, taking API keys from the
// environment only
func applyLLMFlags(cfg *model.Config, provider, llmModel string, minScore int, cacheDir string) error {
	cfg.LLM.Provider = provider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if minScore > 0 {
		cfg.LLM.MinScore = minScore
	}
	if cacheDir != "" {
		cfg.LLM.CacheDir = cacheDir
	}

	switch provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// checkOne loads one file and runs the full check over it, honoring the
// sampling settings
func checkOne(cfg *model.Config, rs *rules.RuleSet, path string, schemaFile string, inferSchema bool) (*model.CheckResult, error) {
	samples, embedded, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	schema := embedded
	if schemaFile != "" {
		schema, err = loader.LoadSchemaFile(schemaFile)
		if err != nil {
			return nil, err
		}
	}
	if schema == nil && inferSchema {
		schema = infer.Infer(samples)
	}

	original := len(samples)
	picked, sampled := loader.Subsample(original, loader.SampleOptions{
		Count: cfg.Check.SampleCount,
		Rate:  cfg.Check.SampleRate,
		Seed:  cfg.Check.Seed,
	})
	if sampled {
		subset := make([]model.Sample, len(picked))
		for i, idx := range picked {
			subset[i] = samples[idx]
		}
		samples = subset
	}

	checker := engine.New(rs, cfg)
	if cfg.Output.Verbose {
		checker.Progress = os.Stderr
	}
	result := checker.Check(samples, schema)

	if sampled {
		result.Sampled = true
		result.SampledCount = len(picked)
		result.OriginalCount = original
	}
	return result, nil
}

// writeOutput writes a rendered report to a file, or stdout when path is
// empty
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	}
	return nil
}
