package integrity

import "regexp"

// repeatedRunLength is the minimum run of identical characters treated as
// filler.
const repeatedRunLength = 6

// suspiciousKeywords matches proof text that is obviously fabricated.
// Case-insensitive; the rule fires once per check regardless of how many
// occurrences match.
var suspiciousKeywords = regexp.MustCompile(`(?i)(fake|test|placeholder|lorem\s*ipsum|asdf|qwerty|123456|password)`)

// alphabeticRun matches unbroken alphabetic stretches of 10+ characters
// with no whitespace, the signature of keyboard-mash filler.
var alphabeticRun = regexp.MustCompile(`[A-Za-z]{10,}`)

func hasSuspiciousKeyword(s string) bool {
	return suspiciousKeywords.MatchString(s)
}

func hasAlphabeticRun(s string) bool {
	return alphabeticRun.MatchString(s)
}

// hasRepeatedRun reports whether s contains n or more identical
// consecutive bytes. Scanned by hand since RE2 has no backreferences.
func hasRepeatedRun(s string, n int) bool {
	if n <= 1 {
		return len(s) > 0
	}
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
