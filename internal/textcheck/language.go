package textcheck

// DefaultScriptTolerance is the share of classified runes a secondary script
// may occupy before the text counts as mixed. Incidental Latin (product
// names, code identifiers) inside CJK text stays below it.
const DefaultScriptTolerance = 0.15

// MixedScripts reports whether a single text substantially mixes two or more
// scripts: more than one script holds a share of classified runes at or above
// the tolerance. Digits and punctuation are never counted.
func MixedScripts(text string, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = DefaultScriptTolerance
	}
	counts := Profile(text)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return false
	}
	substantial := 0
	for _, c := range counts {
		if float64(c)/float64(total) >= tolerance {
			substantial++
		}
	}
	return substantial >= 2
}

// ConsistentScripts reports whether a set of texts agree on their dominant
// script. Texts too short or too ambiguous to classify (confidence <= 0.3)
// are ignored; fewer than two classifiable texts are trivially consistent.
func ConsistentScripts(texts []string) bool {
	var first Script
	seen := 0
	for _, t := range texts {
		if len([]rune(t)) <= 10 {
			continue
		}
		script, confidence := Dominant(t)
		if script == "" || confidence <= 0.3 {
			continue
		}
		seen++
		if seen == 1 {
			first = script
			continue
		}
		if script != first {
			return false
		}
	}
	return true
}
