package password

import (
	"strings"
	"unicode/utf8"
)

// Tier is an ordered strength category; higher is stronger.
type Tier int

const (
	Weak Tier = iota
	Medium
	Strong
	VeryStrong
)

func (t Tier) String() string {
	switch t {
	case VeryStrong:
		return "Very Strong"
	case Strong:
		return "Strong"
	case Medium:
		return "Medium"
	default:
		return "Weak"
	}
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Rule names a base requirement; the values double as JSON keys.
type Rule string

const (
	RuleLength    Rule = "length"
	RuleUppercase Rule = "uppercase"
	RuleLowercase Rule = "lowercase"
	RuleNumber    Rule = "number"
	RuleSpecial   Rule = "special"
	RuleCommon    Rule = "common" // passed when NOT a common password
)

// Rules lists the base requirements in display order.
var Rules = []Rule{RuleLength, RuleUppercase, RuleLowercase, RuleNumber, RuleSpecial, RuleCommon}

const (
	MinLen         = 8
	RecommendedLen = 12
	maxScore       = 100
)

// Suggestion texts are shown verbatim by callers.
const (
	SuggestMinLength     = "Use at least 8 characters (12+ recommended)"
	SuggestLonger        = "Consider using 12 or more characters for better security"
	SuggestUppercase     = "Add uppercase letters (A-Z)"
	SuggestLowercase     = "Add lowercase letters (a-z)"
	SuggestNumber        = "Include numbers (0-9)"
	SuggestSpecial       = "Add special characters (!@#$%^&*)"
	SuggestCommon        = "This appears to be a common password. Try something more unique"
	SuggestRepeats       = `Avoid repeating characters (like "aaa" or "111")`
	SuggestSequence      = `Avoid sequential characters (like "abc" or "123")`
	SuggestVariety       = "Use a wider variety of characters"
	SuggestNone          = "Great job! Your password is strong!"
	SuggestEnterPassword = "Enter a password to see suggestions"
)

// Report is the result of Analyze. Score is capped at 100 for display; the
// tier is derived from RawScore.
type Report struct {
	Tier        Tier          `json:"tier"`
	Score       int           `json:"score"`
	RawScore    int           `json:"raw_score"`
	Rules       map[Rule]bool `json:"rules"`
	Suggestions []string      `json:"suggestions"`
	Empty       bool          `json:"empty"`
}

// Analyze scores pwd. It never fails; an empty string yields an Empty report
// without running any checks.
func Analyze(pwd string) Report {
	rules := make(map[Rule]bool, len(Rules))
	for _, r := range Rules {
		rules[r] = false
	}
	if pwd == "" {
		return Report{
			Tier:        Weak,
			Rules:       rules,
			Suggestions: []string{SuggestEnterPassword},
			Empty:       true,
		}
	}

	n := utf8.RuneCountInString(pwd)
	rules[RuleLength] = n >= MinLen
	rules[RuleUppercase] = strings.ContainsAny(pwd, upperChars)
	rules[RuleLowercase] = strings.ContainsAny(pwd, lowerChars)
	rules[RuleNumber] = strings.ContainsAny(pwd, digitChars)
	rules[RuleSpecial] = strings.ContainsAny(pwd, symbolChars)
	rules[RuleCommon] = !IsCommon(pwd)

	repeats := HasRepeats(pwd)
	sequence := HasSequence(pwd)
	variety := HasGoodVariety(pwd)

	score := 0
	for _, met := range rules {
		if met {
			score += 10
		}
	}
	if n >= 12 {
		score += 15
	}
	if n >= 16 {
		score += 15
	}
	if n >= 20 {
		score += 10
	}
	if !repeats {
		score += 10
	}
	if !sequence {
		score += 10
	}
	if variety {
		score += 10
	}

	return Report{
		Tier:        tierFor(score),
		Score:       min(maxScore, score),
		RawScore:    score,
		Rules:       rules,
		Suggestions: suggestions(n, rules, repeats, sequence, variety),
	}
}

func tierFor(raw int) Tier {
	switch {
	case raw >= 80:
		return VeryStrong
	case raw >= 60:
		return Strong
	case raw >= 40:
		return Medium
	default:
		return Weak
	}
}

func suggestions(n int, rules map[Rule]bool, repeats, sequence, variety bool) []string {
	var out []string
	if !rules[RuleLength] {
		out = append(out, SuggestMinLength)
	} else if n < RecommendedLen {
		out = append(out, SuggestLonger)
	}
	if !rules[RuleUppercase] {
		out = append(out, SuggestUppercase)
	}
	if !rules[RuleLowercase] {
		out = append(out, SuggestLowercase)
	}
	if !rules[RuleNumber] {
		out = append(out, SuggestNumber)
	}
	if !rules[RuleSpecial] {
		out = append(out, SuggestSpecial)
	}
	if !rules[RuleCommon] {
		out = append(out, SuggestCommon)
	}
	if repeats {
		out = append(out, SuggestRepeats)
	}
	if sequence {
		out = append(out, SuggestSequence)
	}
	if !variety {
		out = append(out, SuggestVariety)
	}
	if len(out) == 0 {
		return []string{SuggestNone}
	}
	return out
}
