package textcheck

import (
	"regexp"
	"strings"
)

// Defaults for repetition detection: the most frequent n-gram of this size
// must not account for more than this fraction of all tokens.
const (
	DefaultRepetitionNGram    = 5
	DefaultRepetitionFraction = 0.30
)

var sentenceSplit = regexp.MustCompile(`[。！？.!?\n]+`)

// IsRepetitive reports whether a text is dominated by a repeated phrase, the
// signature of degenerate generation loops. Two signals are checked: the most
// frequent token n-gram occupying too large a fraction of the token stream,
// and the same sentence appearing over and over.
func IsRepetitive(text string, n int, maxFraction float64) bool {
	if n <= 0 {
		n = DefaultRepetitionNGram
	}
	if maxFraction <= 0 {
		maxFraction = DefaultRepetitionFraction
	}

	tokens := Tokenize(text)
	if len(tokens) >= n*2 {
		counts := make(map[string]int)
		top := 0
		for i := 0; i+n <= len(tokens); i++ {
			g := strings.Join(tokens[i:i+n], " ")
			counts[g]++
			if counts[g] > top {
				top = counts[g]
			}
		}
		// Each occurrence of the top n-gram covers n tokens; overlapping
		// occurrences cap the covered count at the total
		covered := top * n
		if covered > len(tokens) {
			covered = len(tokens)
		}
		if top >= 2 && float64(covered)/float64(len(tokens)) > maxFraction {
			return true
		}
	}

	return repeatedSentences(text)
}

// repeatedSentences flags texts where one sentence makes up more than 30% of
// at least three sentences.
func repeatedSentences(text string) bool {
	var segments []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len([]rune(s)) > 5 {
			segments = append(segments, s)
		}
	}
	if len(segments) < 3 {
		return false
	}
	counts := make(map[string]int)
	top := 0
	for _, s := range segments {
		counts[s]++
		if counts[s] > top {
			top = counts[s]
		}
	}
	return top >= 3 && float64(top)/float64(len(segments)) > 0.3
}
