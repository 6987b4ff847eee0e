package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroSource always draws 0, so output is fully determined by the policy.
type zeroSource struct{}

func (zeroSource) Uint32() (uint32, error) { return 0, nil }

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(zeroSource{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeArg(t *testing.T) {
	out, err := run(t, "", "analyze", "password")
	require.NoError(t, err)
	assert.Contains(t, out, "Strength: Medium (50/100)")
	assert.Contains(t, out, "  [x] length")
	assert.Contains(t, out, "  [ ] common")
	assert.Contains(t, out, password.SuggestCommon)
}

func TestAnalyzeStdinJSON(t *testing.T) {
	out, err := run(t, "Xk9#mP2$vL7@qR4!wT6%\n", "analyze", "--json")
	require.NoError(t, err)

	var got struct {
		Tier     string `json:"tier"`
		Score    int    `json:"score"`
		RawScore int    `json:"raw_score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Very Strong", got.Tier)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, 130, got.RawScore)
}

func TestAnalyzeEmptyStdin(t *testing.T) {
	out, err := run(t, "", "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, password.SuggestEnterPassword)
	assert.NotContains(t, out, "Requirements:")
}

func TestGenerateDeterministic(t *testing.T) {
	// A zero source drafts "AAAA"; position 0 keeps the uppercase, a, 0 and !
	// fill positions 1..3 and the shuffle only permutes them.
	out, err := run(t, "", "generate", "-l", "4", "--no-history")
	require.NoError(t, err)
	pwd := strings.TrimSpace(out)
	assert.Len(t, pwd, 4)
	assert.ElementsMatch(t, []rune("Aa0!"), []rune(pwd))
}

func TestGenerateHistory(t *testing.T) {
	out, err := run(t, "", "generate", "-n", "7", "-l", "24", "-c", "lower")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// 7 passwords, a blank line, the header and 5 history rows.
	require.Len(t, lines, 7+1+1+5)
	assert.Equal(t, "Recent (last 5):", lines[8])
	for _, row := range lines[9:] {
		assert.Equal(t, "  "+strings.Repeat("a", 20)+"...", row)
	}
}

func TestGenerateAnalyzeFlag(t *testing.T) {
	out, err := run(t, "", "generate", "-l", "20", "--analyze", "--no-history")
	require.NoError(t, err)
	assert.Contains(t, out, "\t")
	assert.Contains(t, out, "/100)")
}

func TestGenerateErrors(t *testing.T) {
	_, err := run(t, "", "generate", "-c", "emoji")
	assert.ErrorContains(t, err, "unknown character class")

	_, err = run(t, "", "generate", "-c", "")
	assert.True(t, errors.Is(err, password.ErrInvalidPolicy), "got %v", err)

	_, err = run(t, "", "generate", "-l", "0")
	assert.True(t, errors.Is(err, password.ErrInvalidPolicy), "got %v", err)

	_, err = run(t, "", "generate", "-n", "0")
	assert.Error(t, err)
}
