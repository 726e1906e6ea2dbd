package model

// Config is the complete runtime configuration, resolved from flags,
// DATACHECK_* environment variables, the config file, and defaults.
type Config struct {
	Ruleset string        `yaml:"ruleset"`
	Check   CheckConfig   `yaml:"check"`
	Dedup   DedupConfig   `yaml:"dedup"`
	Anomaly AnomalyConfig `yaml:"anomaly"`
	LLM     LLMConfig     `yaml:"llm"`
	Output  OutputConfig  `yaml:"output"`
}

// CheckConfig controls the evaluation run itself
type CheckConfig struct {
	FailUnder   float64 `yaml:"fail_under"`   // exit non-zero below this pass rate
	SampleCount int     `yaml:"sample_count"` // evaluate a random subset of N (0: all)
	SampleRate  float64 `yaml:"sample_rate"`  // evaluate a random fraction (0: all)
	Seed        int64   `yaml:"seed"`         // sampling seed; 0 derives from time
}

// DedupConfig controls duplicate detection
type DedupConfig struct {
	NearThreshold float64 `yaml:"near_threshold"` // Jaccard threshold for near-duplicates
	NGramSize     int     `yaml:"ngram_size"`
	TextField     string  `yaml:"text_field"` // designated text field; empty: all string fields
}

// AnomalyConfig controls statistical outlier detection
type AnomalyConfig struct {
	Method          string  `yaml:"method"` // "iqr" or "zscore"
	IQRFactor       float64 `yaml:"iqr_factor"`
	ZScoreThreshold float64 `yaml:"zscore_threshold"`
}

// LLMConfig configures the optional LLM-assisted quality rule
type LLMConfig struct {
	Provider  string  `yaml:"provider"` // openai, anthropic, ollama; empty disables
	Model     string  `yaml:"model"`
	APIKey    string  `yaml:"-"` // from environment only, never persisted
	BaseURL   string  `yaml:"base_url"`
	Timeout   int     `yaml:"timeout"` // seconds per request
	MaxTokens int     `yaml:"max_tokens"`
	MinScore  int     `yaml:"min_score"` // overall score (1-5) required to pass
	RPS       float64 `yaml:"rps"`       // request pacing
	CacheDir  string  `yaml:"cache_dir"` // empty disables the disk layer
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format  string `yaml:"format"` // markdown, json, html
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Ruleset: "default",
		Check: CheckConfig{
			FailUnder: 0.5,
		},
		Dedup: DedupConfig{
			NearThreshold: 0.8,
			NGramSize:     3,
		},
		Anomaly: AnomalyConfig{
			Method:          "iqr",
			IQRFactor:       1.5,
			ZScoreThreshold: 3.0,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
			MinScore:  3,
			RPS:       2,
		},
		Output: OutputConfig{
			Format: "markdown",
		},
	}
}
