package password

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minSubstringMatch: entries this short only match on equality, otherwise
// "admin" style fragments would flag half of all inputs.
const minSubstringMatch = 4

// commonPasswords is read-only for the process lifetime. Duplicates are harmless.
var commonPasswords = []string{
	"password", "123456", "123456789", "12345678", "12345", "1234567", "1234567890",
	"password123", "password1", "password!", "qwerty", "abc123", "monkey", "1234567890",
	"dragon", "123123", "baseball", "iloveyou", "trustno1", "1234567", "welcome",
	"login", "admin", "princess", "master", "sunshine", "ashley", "bailey",
	"passw0rd", "shadow", "123456", "password", "qwerty123", "michael", "football",
}

// sequences holds every ascending 3-gram of a-z and 0-9.
var sequences = buildSequences("abcdefghijklmnopqrstuvwxyz", "01234567890")

func buildSequences(runs ...string) []string {
	var out []string
	for _, run := range runs {
		for i := 0; i+3 <= len(run); i++ {
			out = append(out, run[i:i+3])
		}
	}
	return out
}

// IsCommon reports whether pwd equals a listed weak password or contains one
// longer than four characters. Matching is case-insensitive.
func IsCommon(pwd string) bool {
	lower := lowercase(pwd)
	for _, c := range commonPasswords {
		if lower == c || (len(c) > minSubstringMatch && strings.Contains(lower, c)) {
			return true
		}
	}
	return false
}

// HasRepeats reports a run of one character repeated three or more times.
// Line terminators never form a run.
func HasRepeats(pwd string) bool {
	var prev rune
	run := 0
	for _, r := range pwd {
		if isLineTerminator(r) {
			run = 0
			continue
		}
		if run > 0 && r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= 3 {
			return true
		}
	}
	return false
}

// HasSequence reports an ascending run such as "abc" or "123", ignoring case.
func HasSequence(pwd string) bool {
	lower := lowercase(pwd)
	for _, seq := range sequences {
		if strings.Contains(lower, seq) {
			return true
		}
	}
	return false
}

// HasGoodVariety: distinct characters make up at least 70% of the length.
func HasGoodVariety(pwd string) bool {
	seen := map[rune]struct{}{}
	n := 0
	for _, r := range pwd {
		seen[r] = struct{}{}
		n++
	}
	return float64(len(seen)) >= float64(n)*0.7
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

// a Caser is stateful, so one is built per call.
func lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}
