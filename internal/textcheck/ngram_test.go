package textcheck

import (
	"math"
	"testing"
)

func TestTokenize_Whitespace(t *testing.T) {
	tokens := Tokenize("The  quick Brown fox")
	want := []string{"the", "quick", "brown", "fox"}
	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("Token %d: expected %q, got %q", i, want[i], tok)
		}
	}
}

func TestTokenize_CJKSplitsPerRune(t *testing.T) {
	tokens := Tokenize("我爱猫")
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 rune tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[0] != "我" || tokens[2] != "猫" {
		t.Errorf("Unexpected tokens: %v", tokens)
	}
}

func TestNGramSet_ShortTextSingleGram(t *testing.T) {
	set := NGramSet("hello world", 3)
	if len(set) != 1 {
		t.Fatalf("Expected 1 n-gram for short text, got %d", len(set))
	}
	if _, ok := set["hello world"]; !ok {
		t.Errorf("Expected joined tokens as single n-gram, got %v", set)
	}
}

func TestNGramSet_Count(t *testing.T) {
	set := NGramSet("a b c d e", 3)
	// 5 tokens, trigrams: abc bcd cde
	if len(set) != 3 {
		t.Errorf("Expected 3 trigrams, got %d: %v", len(set), set)
	}
}

func TestJaccard_Identical(t *testing.T) {
	a := NGramSet("the quick brown fox jumps", 3)
	if sim := Jaccard(a, a); sim != 1.0 {
		t.Errorf("Expected similarity 1.0 for identical sets, got %f", sim)
	}
}

func TestJaccard_Disjoint(t *testing.T) {
	a := NGramSet("alpha beta gamma delta", 2)
	b := NGramSet("one two three four", 2)
	if sim := Jaccard(a, b); sim != 0.0 {
		t.Errorf("Expected similarity 0.0 for disjoint sets, got %f", sim)
	}
}

func TestJaccard_Symmetric(t *testing.T) {
	a := NGramSet("the quick brown fox jumps over the lazy dog", 3)
	b := NGramSet("the quick brown fox leaps over the lazy dog", 3)
	ab := Jaccard(a, b)
	ba := Jaccard(b, a)
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("Jaccard not symmetric: %f vs %f", ab, ba)
	}
	if ab <= 0 || ab >= 1 {
		t.Errorf("Expected partial overlap, got %f", ab)
	}
}

func TestJaccard_BothEmpty(t *testing.T) {
	if sim := Jaccard(map[string]struct{}{}, map[string]struct{}{}); sim != 1.0 {
		t.Errorf("Expected 1.0 for two empty sets, got %f", sim)
	}
}
