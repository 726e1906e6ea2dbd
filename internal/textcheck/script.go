package textcheck

import "unicode"

// Script is a writing-system bucket used for language-consistency checks and
// for choosing the n-gram tokenization mode.
type Script string

const (
	ScriptHan      Script = "han"
	ScriptLatin    Script = "latin"
	ScriptKana     Script = "kana" // Hiragana + Katakana
	ScriptHangul   Script = "hangul"
	ScriptCyrillic Script = "cyrillic"
	ScriptArabic   Script = "arabic"
	ScriptThai     Script = "thai"
)

// scriptTables maps each bucket to its Unicode range tables. Order is fixed
// so profiles iterate deterministically.
var scriptTables = []struct {
	script Script
	table  *unicode.RangeTable
}{
	{ScriptHan, unicode.Han},
	{ScriptKana, &unicode.RangeTable{R16: append(append([]unicode.Range16{}, unicode.Hiragana.R16...), unicode.Katakana.R16...)}},
	{ScriptHangul, unicode.Hangul},
	{ScriptCyrillic, unicode.Cyrillic},
	{ScriptArabic, unicode.Arabic},
	{ScriptThai, unicode.Thai},
	{ScriptLatin, unicode.Latin},
}

// ClassifyRune returns the script bucket for a rune, or "" for digits,
// punctuation, and anything outside the tracked scripts.
func ClassifyRune(r rune) Script {
	for _, st := range scriptTables {
		if unicode.Is(st.table, r) {
			return st.script
		}
	}
	return ""
}

// Profile counts the classified runes of a text per script. Unclassified
// runes (digits, punctuation, whitespace) are not counted.
func Profile(text string) map[Script]int {
	counts := make(map[Script]int)
	for _, r := range text {
		if s := ClassifyRune(r); s != "" {
			counts[s]++
		}
	}
	return counts
}

// Dominant returns the script with the highest count and its share of all
// classified runes. An empty script means no classifiable runes were found.
func Dominant(text string) (Script, float64) {
	counts := Profile(text)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return "", 0
	}
	var best Script
	bestCount := -1
	// Iterate in table order for a deterministic tie-break
	for _, st := range scriptTables {
		if c := counts[st.script]; c > bestCount {
			best = st.script
			bestCount = c
		}
	}
	return best, float64(bestCount) / float64(total)
}

// isCJK reports whether a script tokenizes by character rather than by
// whitespace-separated words.
func isCJK(s Script) bool {
	return s == ScriptHan || s == ScriptKana || s == ScriptThai
}
