package password

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is returned when a Policy cannot produce any character.
var ErrInvalidPolicy = errors.New("invalid_policy")

// Policy describes what Generate may emit.
type Policy struct {
	Length         int     `json:"length"`
	Classes        []Class `json:"classes"`
	ExcludeSimilar bool    `json:"exclude_similar"`
}

// selected returns the requested classes in generation order, deduped.
func (p Policy) selected() []Class {
	want := map[Class]bool{}
	for _, c := range p.Classes {
		want[c] = true
	}
	out := make([]Class, 0, len(want))
	for _, c := range AllClasses {
		if want[c] {
			out = append(out, c)
		}
	}
	return out
}

// Alphabet is the effective alphabet: selected class alphabets in fixed
// order, minus SimilarChars when ExcludeSimilar is set.
func (p Policy) Alphabet() string {
	var b []byte
	for _, c := range p.selected() {
		b = append(b, c.filtered(p.ExcludeSimilar)...)
	}
	return string(b)
}

// Validate reports ErrInvalidPolicy (wrapped with detail) for unusable policies.
func (p Policy) Validate() error {
	if p.Length < 1 {
		return fmt.Errorf("%w: length must be at least 1, got %d", ErrInvalidPolicy, p.Length)
	}
	for _, c := range p.Classes {
		if c.Alphabet() == "" {
			return fmt.Errorf("%w: unknown class %d", ErrInvalidPolicy, int(c))
		}
	}
	if len(p.Classes) == 0 {
		return fmt.Errorf("%w: select at least one character type", ErrInvalidPolicy)
	}
	if p.Alphabet() == "" {
		return fmt.Errorf("%w: no characters left after excluding similar ones", ErrInvalidPolicy)
	}
	return nil
}
