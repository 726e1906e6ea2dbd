// Package llmcheck implements the optional LLM-assisted quality rule: an
// external model grades each sample's overall quality on a 1-5 scale and the
// rule passes when the grade clears the configured floor. Grades are cached
// by sample content hash and requests are paced so large collections do not
// hammer provider rate limits.
package llmcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/knowlyr/datacheck/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Grade asks the model to score one sample's quality
	Grade(ctx context.Context, req GradeRequest) (*GradeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GradeRequest contains the input for one grading call
type GradeRequest struct {
	// Prompt is the fully rendered grading prompt
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GradeResponse is the model's verdict on one sample
type GradeResponse struct {
	// Score is the overall quality grade, 1 (unusable) to 5 (excellent)
	Score int

	// Rationale is the model's one-line justification
	Rationale string

	// Model is the model that produced the grade
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// MinScore is the grade required to pass, 1-5
	MinScore int

	// RPS paces requests to the provider
	RPS float64

	// CacheDir enables the disk grade cache when non-empty
	CacheDir string
}

// DefaultConfig returns sensible defaults; the provider stays disabled until
// one is named explicitly
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 500,
		MinScore:  3,
		RPS:       2,
	}
}

// gradeSystemPrompt frames every provider call the same way
const gradeSystemPrompt = "You are a strict dataset quality grader. " +
	"You respond with a single JSON object and nothing else."

// BuildPrompt renders the grading prompt for one sample. Fields are listed
// in sorted order so the same sample always produces the same prompt, which
// is what makes grade caching sound.
func BuildPrompt(sample model.Sample) string {
	var b strings.Builder
	b.WriteString(`Grade the overall quality of this dataset sample on a 1-5 scale:
5 = excellent: clear, correct, complete
4 = good: minor issues only
3 = acceptable: usable but flawed
2 = poor: significant problems
1 = unusable: incoherent, wrong, or empty

Judge clarity, coherence, and whether responses actually address their
instructions. Do not judge topic or opinion.

Sample:
`)
	for _, field := range sample.Fields() {
		v := sample[field]
		if v == nil {
			continue
		}
		fmt.Fprintf(&b, "%s: %v\n", field, v)
	}
	b.WriteString("\nRespond with exactly one JSON object: {\"score\": <1-5>, \"rationale\": \"<one sentence>\"}")
	return b.String()
}

// gradePayload is the JSON shape the model is instructed to return
type gradePayload struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// ParseGrade extracts the score from a model response. Models wrap JSON in
// prose or code fences often enough that the parser scans for the outermost
// object instead of trusting the whole body.
func ParseGrade(text string) (int, string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return 0, "", fmt.Errorf("no JSON object in response: %q", truncate(text, 120))
	}

	var payload gradePayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return 0, "", fmt.Errorf("parse grade: %w", err)
	}

	score := int(payload.Score)
	if score < 1 || score > 5 {
		return 0, "", fmt.Errorf("grade %v out of range 1-5", payload.Score)
	}
	return score, strings.TrimSpace(payload.Rationale), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
