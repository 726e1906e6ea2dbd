package llmcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/knowlyr/datacheck/internal/model"
)

func TestParseGrade_PlainJSON(t *testing.T) {
	score, rationale, err := ParseGrade(`{"score": 4, "rationale": "clear and complete"}`)
	if err != nil {
		t.Fatalf("ParseGrade failed: %v", err)
	}
	if score != 4 || rationale != "clear and complete" {
		t.Errorf("Expected (4, clear and complete), got (%d, %q)", score, rationale)
	}
}

func TestParseGrade_WrappedInProse(t *testing.T) {
	text := "Here is my assessment:\n```json\n{\"score\": 2, \"rationale\": \"incoherent\"}\n```\nHope that helps."
	score, _, err := ParseGrade(text)
	if err != nil {
		t.Fatalf("ParseGrade failed on fenced JSON: %v", err)
	}
	if score != 2 {
		t.Errorf("Expected score 2, got %d", score)
	}
}

func TestParseGrade_Invalid(t *testing.T) {
	cases := []string{
		"no json here at all",
		`{"score": 9, "rationale": "out of range"}`,
		`{"score": 0}`,
		`{broken`,
	}
	for _, text := range cases {
		if _, _, err := ParseGrade(text); err == nil {
			t.Errorf("Expected error for %q", text)
		}
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	sample := model.Sample{"b": "second", "a": "first", "score": float64(3)}
	p1 := BuildPrompt(sample)
	p2 := BuildPrompt(sample)
	if p1 != p2 {
		t.Error("Prompt must be deterministic for the same sample")
	}
	// Fields appear in sorted order
	if strings.Index(p1, "a: first") > strings.Index(p1, "b: second") {
		t.Error("Prompt fields must be in sorted order")
	}
	if !strings.Contains(p1, `{"score": <1-5>`) {
		t.Error("Prompt must state the response contract")
	}
}

func TestNewProvider(t *testing.T) {
	if p, err := NewProvider(Config{}); err != nil || p != nil {
		t.Errorf("Empty provider name should disable grading, got %v, %v", p, err)
	}
	if _, err := NewProvider(Config{Provider: "unknown"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("OpenAI without API key should fail")
	}
	if p, err := NewProvider(Config{Provider: "ollama", Model: "llama3.1"}); err != nil || p.Name() != "ollama" {
		t.Errorf("Ollama provider should build without a key, got %v, %v", p, err)
	}
}

func TestOllamaProvider_Grade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if req.Stream {
			t.Error("Grading must not stream")
		}
		resp := ollamaResponse{
			Model:           "llama3.1",
			Response:        `{"score": 4, "rationale": "coherent and on-topic"}`,
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Grade(context.Background(), GradeRequest{
		Prompt: BuildPrompt(model.Sample{"text": "hello"}),
	})
	if err != nil {
		t.Fatalf("Grade failed: %v", err)
	}
	if resp.Score != 4 {
		t.Errorf("Expected score 4, got %d", resp.Score)
	}
	if resp.TokensUsed != 30 {
		t.Errorf("Expected 30 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.1", Timeout: 5})
	_, err := provider.Grade(context.Background(), GradeRequest{Prompt: "grade this"})
	if err == nil {
		t.Fatal("Expected error from API failure")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Error should carry the API message, got %v", err)
	}
}

func TestAnthropicProvider_Grade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Missing API key header")
		}
		resp := anthropicResponse{
			Model: "claude-3-5-haiku-20241022",
		}
		resp.Content = []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{
			{Type: "text", Text: `{"score": 5, "rationale": "excellent"}`},
		}
		resp.Usage.InputTokens = 50
		resp.Usage.OutputTokens = 15
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Grade(context.Background(), GradeRequest{Prompt: "grade this"})
	if err != nil {
		t.Fatalf("Grade failed: %v", err)
	}
	if resp.Score != 5 {
		t.Errorf("Expected score 5, got %d", resp.Score)
	}
	if resp.TokensUsed != 65 {
		t.Errorf("Expected 65 tokens, got %d", resp.TokensUsed)
	}
}

// countingProvider serves a fixed grade and counts calls
type countingProvider struct {
	calls int
	score int
	fail  bool
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) IsAvailable(context.Context) bool { return true }

func (p *countingProvider) Grade(_ context.Context, _ GradeRequest) (*GradeResponse, error) {
	p.calls++
	if p.fail {
		return nil, fmt.Errorf("provider unavailable")
	}
	return &GradeResponse{Score: p.score, Rationale: "stub", Model: "stub"}, nil
}

func TestQualityChecker_CachesByContent(t *testing.T) {
	provider := &countingProvider{score: 4}
	qc := NewQualityChecker(provider, Config{RPS: 1000})

	sample := model.Sample{"text": "the same sample"}
	for i := 0; i < 3; i++ {
		resp, err := qc.Grade(context.Background(), sample)
		if err != nil {
			t.Fatalf("Grade failed: %v", err)
		}
		if resp.Score != 4 {
			t.Errorf("Expected score 4, got %d", resp.Score)
		}
	}
	if provider.calls != 1 {
		t.Errorf("Identical samples must hit the cache; provider called %d times", provider.calls)
	}

	// A different sample misses
	if _, err := qc.Grade(context.Background(), model.Sample{"text": "something else"}); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 2 {
		t.Errorf("Different content must call the provider, got %d calls", provider.calls)
	}
}

func TestQualityChecker_DiskCachePersists(t *testing.T) {
	dir := t.TempDir()

	first := NewQualityChecker(&countingProvider{score: 3}, Config{RPS: 1000, CacheDir: dir})
	sample := model.Sample{"text": "persisted sample"}
	if _, err := first.Grade(context.Background(), sample); err != nil {
		t.Fatal(err)
	}

	// A fresh checker over the same cache dir never calls its provider
	provider := &countingProvider{score: 1}
	second := NewQualityChecker(provider, Config{RPS: 1000, CacheDir: dir})
	resp, err := second.Grade(context.Background(), sample)
	if err != nil {
		t.Fatal(err)
	}
	if provider.calls != 0 {
		t.Errorf("Expected cache hit across runs, provider called %d times", provider.calls)
	}
	if resp.Score != 3 {
		t.Errorf("Expected cached score 3, got %d", resp.Score)
	}
}

func TestMakeRule(t *testing.T) {
	qc := NewQualityChecker(&countingProvider{score: 2}, Config{RPS: 1000, MinScore: 3})
	rule := qc.MakeRule(context.Background())

	if rule.ID != "llm_quality" || rule.Severity != model.SeverityWarning {
		t.Errorf("Unexpected rule shape: %+v", rule)
	}
	passed, err := rule.Check(model.Sample{"text": "below the floor"}, nil)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if passed {
		t.Error("Score below the floor must fail the rule")
	}

	good := NewQualityChecker(&countingProvider{score: 5}, Config{RPS: 1000, MinScore: 3})
	passed, err = good.MakeRule(context.Background()).Check(model.Sample{"text": "great"}, nil)
	if err != nil || !passed {
		t.Errorf("Score above the floor must pass, got %v, %v", passed, err)
	}
}

func TestMakeRule_ProviderErrorIsDiagnostic(t *testing.T) {
	qc := NewQualityChecker(&countingProvider{fail: true}, Config{RPS: 1000, MinScore: 3})
	passed, err := qc.MakeRule(context.Background()).Check(model.Sample{"text": "x"}, nil)
	if passed {
		t.Error("Provider failure must not pass the rule")
	}
	if err == nil || !strings.Contains(err.Error(), "provider unavailable") {
		t.Errorf("Expected diagnostic error, got %v", err)
	}
}
