package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource always returns v.
type constSource uint32

func (c constSource) Uint32() (uint32, error) { return uint32(c), nil }

// seqSource returns its values in order, then zeros.
type seqSource struct{ vals []uint32 }

func (s *seqSource) Uint32() (uint32, error) {
	if len(s.vals) == 0 {
		return 0, nil
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v, nil
}

// failingSource succeeds n times and then fails.
type failingSource struct{ n int }

var errSourceDown = errors.New("entropy unavailable")

func (f *failingSource) Uint32() (uint32, error) {
	if f.n <= 0 {
		return 0, errSourceDown
	}
	f.n--
	return 7, nil
}

func allClasses(length int) Policy {
	return Policy{Length: length, Classes: AllClasses}
}

func TestGenerateGuaranteesEveryClass(t *testing.T) {
	for i := 0; i < 1000; i++ {
		pwd, err := Generate(allClasses(12), CryptoSource{})
		require.NoError(t, err)
		require.Len(t, pwd, 12)
		for _, c := range AllClasses {
			require.True(t, strings.ContainsAny(pwd, c.Alphabet()), "%q lacks %s", pwd, c)
		}
	}
}

func TestGenerateGuaranteesEveryClassAtMinimumLength(t *testing.T) {
	policies := []Policy{
		allClasses(4),
		allClasses(5),
		{Length: 2, Classes: []Class{Digit, Symbol}},
		{Length: 3, Classes: []Class{Uppercase, Lowercase, Digit}, ExcludeSimilar: true},
	}
	for _, p := range policies {
		for i := 0; i < 2000; i++ {
			pwd, err := Generate(p, CryptoSource{})
			require.NoError(t, err)
			require.Len(t, pwd, p.Length)
			for _, c := range p.selected() {
				require.True(t, strings.ContainsAny(pwd, c.filtered(p.ExcludeSimilar)), "%q lacks %s", pwd, c)
			}
		}
	}
}

func TestGenerateKeepsOnlyWitnessOfPresentClass(t *testing.T) {
	// 52 picks '0' from the full alphabet, so the draft is "0AAA". The digit
	// at position 0 is the only one; lowercase and symbol must go elsewhere.
	src := &seqSource{vals: []uint32{52, 0, 0, 0}}
	pwd, err := Generate(allClasses(4), src)
	require.NoError(t, err)
	require.Len(t, pwd, 4)
	assert.ElementsMatch(t, []rune("0Aa!"), []rune(pwd))
}

func TestGenerateDiffersBetweenCalls(t *testing.T) {
	prev := ""
	for i := 0; i < 100; i++ {
		pwd, err := Generate(allClasses(12), CryptoSource{})
		require.NoError(t, err)
		assert.NotEqual(t, prev, pwd)
		prev = pwd
	}
}

func TestGenerateOnlyUsesEffectiveAlphabet(t *testing.T) {
	policies := []Policy{
		{Length: 32, Classes: []Class{Digit}},
		{Length: 32, Classes: []Class{Lowercase, Symbol}},
		{Length: 32, Classes: []Class{Uppercase, Digit}, ExcludeSimilar: true},
		{Length: 1, Classes: []Class{Symbol}},
	}
	for _, p := range policies {
		alphabet := p.Alphabet()
		for i := 0; i < 200; i++ {
			pwd, err := Generate(p, CryptoSource{})
			require.NoError(t, err)
			require.Len(t, pwd, p.Length)
			for _, r := range pwd {
				require.True(t, strings.ContainsRune(alphabet, r), "%q outside %q", r, alphabet)
			}
		}
	}
}

func TestGenerateExcludeSimilar(t *testing.T) {
	p := Policy{Length: 64, Classes: AllClasses, ExcludeSimilar: true}
	for i := 0; i < 500; i++ {
		pwd, err := Generate(p, CryptoSource{})
		require.NoError(t, err)
		require.False(t, strings.ContainsAny(pwd, SimilarChars), "%q has similar chars", pwd)
	}
}

func TestGenerateInvalidPolicy(t *testing.T) {
	tests := []struct {
		name string
		p    Policy
	}{
		{"no_classes", Policy{Length: 4, Classes: []Class{}}},
		{"nil_classes", Policy{Length: 4}},
		{"zero_length", Policy{Length: 0, Classes: AllClasses}},
		{"negative_length", Policy{Length: -3, Classes: AllClasses}},
		{"unknown_class", Policy{Length: 4, Classes: []Class{Class(42)}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pwd, err := Generate(tc.p, CryptoSource{})
			assert.Empty(t, pwd)
			assert.ErrorIs(t, err, ErrInvalidPolicy)
		})
	}
}

func TestGenerateGuaranteePassDeterministic(t *testing.T) {
	// A zero source drafts "AAAAAAAAAAAA". Position 0 holds the uppercase
	// witness, so lowercase, digit and symbol go to positions 1..3.
	pwd, err := Generate(allClasses(12), constSource(0))
	require.NoError(t, err)
	require.Len(t, pwd, 12)
	assert.Equal(t, 9, strings.Count(pwd, "A"))
	assert.Equal(t, 1, strings.Count(pwd, "a"))
	assert.Equal(t, 1, strings.Count(pwd, "0"))
	assert.Equal(t, 1, strings.Count(pwd, "!"))
}

func TestGenerateShorterThanClassCount(t *testing.T) {
	// "AA" -> 'a' at 0, '0' at 1, '!' overwrites 'a' at 0 -> "!0" -> shuffled "0!".
	pwd, err := Generate(allClasses(2), constSource(0))
	require.NoError(t, err)
	assert.Equal(t, "0!", pwd)
}

func TestGenerateSkipsPresentClasses(t *testing.T) {
	// Index 26 of the upper+lower alphabet is 'a'; every draw is 'a' so only
	// uppercase needs patching.
	p := Policy{Length: 5, Classes: []Class{Lowercase, Uppercase}}
	pwd, err := Generate(p, constSource(26))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(pwd, "a"))
	assert.Equal(t, 1, strings.Count(pwd, "A"))
}

func TestGenerateSourceFailure(t *testing.T) {
	for _, n := range []int{0, 5, 13} {
		_, err := Generate(allClasses(12), &failingSource{n: n})
		assert.ErrorIs(t, err, errSourceDown, "fail after %d draws", n)
	}
}

func TestPolicyAlphabetOrder(t *testing.T) {
	p := Policy{Classes: []Class{Symbol, Digit, Uppercase, Digit}}
	assert.Equal(t, upperChars+digitChars+symbolChars, p.Alphabet())

	p.ExcludeSimilar = true
	assert.Equal(t, "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"+symbolChars, p.Alphabet())
}

func TestDefaultsPolicy(t *testing.T) {
	d := Defaults{Length: 16, MaxLength: 128, Classes: AllClasses}

	p := d.Policy(0, nil, nil)
	assert.Equal(t, Policy{Length: 16, Classes: AllClasses}, p)

	yes := true
	p = d.Policy(8, []Class{Digit}, &yes)
	assert.Equal(t, Policy{Length: 8, Classes: []Class{Digit}, ExcludeSimilar: true}, p)

	p = d.Policy(8, []Class{}, nil)
	assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)
}

func TestLoadDefaultsFromEnv(t *testing.T) {
	t.Setenv("PASSWORD_DEFAULT_LENGTH", "200")
	t.Setenv("PASSWORD_MAX_LENGTH", "64")
	t.Setenv("PASSWORD_EXCLUDE_SIMILAR", "true")

	d := LoadDefaultsFromEnv()
	assert.Equal(t, 64, d.Length)
	assert.Equal(t, 64, d.MaxLength)
	assert.True(t, d.ExcludeSimilar)
	assert.Equal(t, AllClasses, d.Classes)
}
