package password

import (
	"fmt"
	"strings"
)

// Class is a character class a generated password can draw from.
type Class int

const (
	Uppercase Class = iota
	Lowercase
	Digit
	Symbol
)

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// SimilarChars are glyphs that are easy to confuse when read back.
	SimilarChars = "iIl1oO0"
)

// AllClasses lists every class in generation order.
var AllClasses = []Class{Uppercase, Lowercase, Digit, Symbol}

func (c Class) String() string {
	switch c {
	case Uppercase:
		return "uppercase"
	case Lowercase:
		return "lowercase"
	case Digit:
		return "digit"
	case Symbol:
		return "symbol"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Alphabet returns the fixed character set of c.
func (c Class) Alphabet() string {
	switch c {
	case Uppercase:
		return upperChars
	case Lowercase:
		return lowerChars
	case Digit:
		return digitChars
	case Symbol:
		return symbolChars
	default:
		return ""
	}
}

// filtered returns the alphabet of c, minus SimilarChars when excludeSimilar is set.
func (c Class) filtered(excludeSimilar bool) string {
	a := c.Alphabet()
	if excludeSimilar {
		a = stripSimilar(a)
	}
	return a
}

func (c Class) MarshalText() ([]byte, error) {
	if c.Alphabet() == "" {
		return nil, fmt.Errorf("unknown class %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	v, err := ParseClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseClass accepts class names as used by the API and CLI ("upper", "numbers", ...).
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uppercase", "upper":
		return Uppercase, nil
	case "lowercase", "lower":
		return Lowercase, nil
	case "digit", "digits", "number", "numbers":
		return Digit, nil
	case "symbol", "symbols", "special":
		return Symbol, nil
	}
	return 0, fmt.Errorf("unknown character class %q", s)
}

// ParseClassesCSV: "upper,digits" -> {Uppercase, Digit}, deduped, in input order.
func ParseClassesCSV(csv string) ([]Class, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	seen := map[Class]struct{}{}
	out := []Class{}
	for _, p := range strings.Split(csv, ",") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		c, err := ParseClass(p)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func stripSimilar(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(SimilarChars, r) {
			return -1
		}
		return r
	}, s)
}
