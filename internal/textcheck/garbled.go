package textcheck

import "regexp"

// Control characters (minus tab/newline/carriage return), the replacement
// character, and non-characters that indicate binary garbage or broken
// decoding.
var garbledPattern = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x{FFFD}\x{FFFE}\x{FFFF}]`)

// Runs of Latin-1 supplement letters are the classic mojibake artifact of
// UTF-8 bytes re-decoded as Latin-1 (e.g. "ä½ å¥½").
var mojibakePattern = regexp.MustCompile(`[\x{C0}-\x{FF}]{3,}`)

// DefaultGarbledRatio is the fraction of garbled runes above which a text is
// considered corrupted.
const DefaultGarbledRatio = 0.01

// GarbledRatio returns the fraction of runes in text that are control or
// replacement characters.
func GarbledRatio(text string) float64 {
	if text == "" {
		return 0
	}
	runeCount := 0
	for range text {
		runeCount++
	}
	garbled := len(garbledPattern.FindAllString(text, -1))
	return float64(garbled) / float64(runeCount)
}

// IsGarbled reports whether the text looks corrupted: its garbled-rune ratio
// exceeds the threshold, or it contains mojibake runs. Short texts are
// exempt, matching the minimum the heuristics need to be meaningful.
func IsGarbled(text string, ratioThreshold float64) bool {
	if len([]rune(text)) < 5 {
		return false
	}
	if ratioThreshold <= 0 {
		ratioThreshold = DefaultGarbledRatio
	}
	if r := GarbledRatio(text); r > ratioThreshold {
		return true
	}
	return mojibakePattern.MatchString(text)
}
