package llmcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/knowlyr/datacheck/internal/cache"
	"github.com/knowlyr/datacheck/internal/dedup"
	"github.com/knowlyr/datacheck/internal/model"
)

// gradeTTL is how long cached grades stay valid. Grades are opinions of a
// fixed (model, prompt) pair over fixed content, so a long TTL is safe.
const gradeTTL = 30 * 24 * time.Hour

// QualityChecker grades samples through a provider, with content-hash
// caching and request pacing. Safe for use from one goroutine; the engine
// evaluates rules sequentially.
type QualityChecker struct {
	provider Provider
	limiter  *rate.Limiter
	cache    cache.Cache
	config   Config
}

// cachedGrade is the cache entry format
type cachedGrade struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
	Model     string `json:"model"`
}

// NewQualityChecker wires a provider with its cache and limiter. With a
// cache directory configured, grades persist across runs; otherwise they
// live only for the current process.
func NewQualityChecker(provider Provider, config Config) *QualityChecker {
	var store cache.Cache
	if config.CacheDir != "" {
		store = cache.NewLayeredCache(time.Hour, config.CacheDir, gradeTTL)
	} else {
		store = cache.NewMemoryCache(time.Hour, 10*time.Minute)
	}

	rps := config.RPS
	if rps <= 0 {
		rps = 2
	}

	return &QualityChecker{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		cache:    store,
		config:   config,
	}
}

// Grade returns the sample's quality grade, from cache when possible. The
// cache key is the sample's content hash combined with the model, so a model
// change re-grades everything.
func (q *QualityChecker) Grade(ctx context.Context, sample model.Sample) (*GradeResponse, error) {
	key := cache.Key(dedup.ContentHash(sample) + ":" + q.config.Model)

	if data, found := q.cache.Get(key); found {
		var entry cachedGrade
		if err := json.Unmarshal(data, &entry); err == nil {
			return &GradeResponse{Score: entry.Score, Rationale: entry.Rationale, Model: entry.Model}, nil
		}
	}

	if err := q.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := q.provider.Grade(ctx, GradeRequest{
		Prompt:    BuildPrompt(sample),
		Model:     q.config.Model,
		MaxTokens: q.config.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cachedGrade{Score: resp.Score, Rationale: resp.Rationale, Model: resp.Model}); err == nil {
		_ = q.cache.Set(key, data, gradeTTL)
	}

	return resp, nil
}

// MakeRule wraps the checker as a rule for the engine. Provider failures
// surface as failed outcomes with a diagnostic; the rule's warning severity
// keeps an API outage from failing samples outright.
func (q *QualityChecker) MakeRule(ctx context.Context) *model.Rule {
	minScore := q.config.MinScore
	if minScore == 0 {
		minScore = 3
	}

	return &model.Rule{
		ID:          "llm_quality",
		Name:        "LLM quality",
		Description: fmt.Sprintf("Model-graded quality at or above %d/5", minScore),
		Kind:        model.CheckLLMQuality,
		Severity:    model.SeverityWarning,
		Enabled:     true,
		Check: func(sample model.Sample, _ *model.Schema) (bool, error) {
			resp, err := q.Grade(ctx, sample)
			if err != nil {
				return false, fmt.Errorf("llm grading: %w", err)
			}
			if resp.Score < minScore {
				return false, nil
			}
			return true, nil
		},
	}
}
