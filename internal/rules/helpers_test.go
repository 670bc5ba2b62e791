package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/werewolf/internal/tag"
)

// chars builds a tag set with one tag per character, e.g. "ABC".
func chars(s string) *tag.TagSet {
	return tag.FromIDs(strings.Split(s, "")...)
}

type ruleSpec struct {
	from, to string
	explicit bool
}

func explicitRule(from, to string) ruleSpec    { return ruleSpec{from, to, true} }
func nonExplicitRule(from, to string) ruleSpec { return ruleSpec{from, to, false} }

func buildRules(t *testing.T, specs ...ruleSpec) []*Rule {
	t.Helper()
	out := make([]*Rule, len(specs))
	for i, s := range specs {
		r, err := NewRule(chars(s.from), chars(s.to), s.explicit)
		require.NoError(t, err, "rule %d", i)
		out[i] = r
	}
	return out
}

func buildRuleSet(t *testing.T, specs ...ruleSpec) *RuleSet {
	t.Helper()
	rs, err := New(buildRules(t, specs...))
	require.NoError(t, err)
	return rs
}
