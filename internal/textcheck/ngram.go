package textcheck

import "strings"

// Tokenize splits text into similarity tokens. Texts dominated by a script
// without word spacing (Han, Kana, Thai) split per rune; everything else
// splits on whitespace. Tokens are lowercased.
func Tokenize(text string) []string {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return nil
	}
	if script, _ := Dominant(text); isCJK(script) {
		runes := []rune(text)
		tokens := make([]string, 0, len(runes))
		for _, r := range runes {
			if r == ' ' || r == '\n' || r == '\t' {
				continue
			}
			tokens = append(tokens, string(r))
		}
		return tokens
	}
	return strings.Fields(text)
}

// NGramSet returns the set of contiguous n-grams over the text's tokens.
// Texts shorter than n tokens yield a single n-gram of everything, so short
// but identical texts still compare equal.
func NGramSet(text string, n int) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{})
	if len(tokens) == 0 {
		return set
	}
	if len(tokens) < n {
		set[strings.Join(tokens, " ")] = struct{}{}
		return set
	}
	for i := 0; i+n <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+n], " ")] = struct{}{}
	}
	return set
}

// Jaccard computes |A∩B| / |A∪B| over two n-gram sets. Two empty sets are
// fully similar by convention.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
