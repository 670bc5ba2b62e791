package rules

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/werewolf/internal/tag"
)

// RuleSet is a validated collection of rules that can reduce any tag set it
// handles down to master tags.
//
// Explicit rules are bucketed by |from|. Non-explicit rules are bucketed by
// priority and searched from the highest priority down.
//
// INVARIANTS (established by New, never change afterwards):
//   - no two rules in the same bucket share a from set
//   - every tag produced by a rule is a master tag or appears in some from set
//   - at least one rule exists
//
// A RuleSet is immutable and safe for concurrent use.
type RuleSet struct {
	rules       []*Rule // declaration order
	explicit    map[int][]*Rule
	nonExplicit map[uint32][]*Rule
	priorities  []uint32 // non-explicit bucket keys, highest first
	handled     *tag.TagSet
	collisions  []Collision
	stepLimit   int
}

// Collision is a pair of same-priority rules that some tag set can match at
// once. Collapse resolves these at run time when the branches converge.
type Collision struct {
	A, B *Rule
}

// String renders the pair.
func (c Collision) String() string {
	return fmt.Sprintf("%s <> %s", c.A, c.B)
}

// Option configures a RuleSet.
type Option func(*RuleSet)

// WithStepLimit sets the maximum rewrite steps per collapse. New rejects a
// limit below 1.
//
// Default: the number of rules.
func WithStepLimit(limit int) Option {
	return func(rs *RuleSet) {
		rs.stepLimit = limit
	}
}

// New validates rules and builds a RuleSet.
//
// The rules slice is copied; later changes to it do not affect the set.
func New(rules []*Rule, opts ...Option) (*RuleSet, error) {
	rs := &RuleSet{
		rules:       slices.Clone(rules),
		explicit:    make(map[int][]*Rule),
		nonExplicit: make(map[uint32][]*Rule),
		handled:     tag.NewSet(tag.Masters()...),
	}

	if len(rs.rules) == 0 {
		return nil, &RuleError{Code: ErrCodeNoRules, Message: "must specify at least one rule"}
	}

	for _, r := range rs.rules {
		var bucket []*Rule
		var key string
		if r.explicit {
			bucket = rs.explicit[r.from.Len()]
			key = fmt.Sprintf("explicit priority %d", r.from.Len())
		} else {
			bucket = rs.nonExplicit[r.priority()]
			key = fmt.Sprintf("non-explicit priority %d (from: %d; to: %d)", r.priority(), r.from.Len(), r.to.Len())
		}

		for _, existing := range bucket {
			if existing.from.Equal(r.from) {
				return nil, &RuleError{
					Code:    ErrCodeDuplicateRule,
					Message: "rule collision found for " + key,
					Rules:   []string{existing.String(), r.String()},
				}
			}
			if !r.explicit && existing.CollidesWith(r) {
				rs.collisions = append(rs.collisions, Collision{A: existing, B: r})
			}
		}

		if r.explicit {
			rs.explicit[r.from.Len()] = append(bucket, r)
		} else {
			rs.nonExplicit[r.priority()] = append(bucket, r)
		}
		rs.handled = rs.handled.Union(r.from)
	}

	for _, r := range rs.rules {
		if missing := r.to.Except(rs.handled); missing.Len() > 0 {
			return nil, &RuleError{
				Code:    ErrCodeUnreachableTag,
				Message: fmt.Sprintf("rule transforms into tags %s which no rule in this ruleset handles", missing),
				Rules:   []string{r.String()},
				Tags:    missing.String(),
			}
		}
	}

	rs.priorities = slices.SortedFunc(maps.Keys(rs.nonExplicit), func(a, b uint32) int {
		return cmp.Compare(b, a)
	})
	rs.stepLimit = len(rs.rules)

	for _, opt := range opts {
		opt(rs)
	}
	if rs.stepLimit < 1 {
		return nil, &RuleError{
			Code:    ErrCodeInvalidStepLimit,
			Message: fmt.Sprintf("step limit must be at least 1, got %d", rs.stepLimit),
		}
	}

	slog.Debug("ruleset built",
		"rules", len(rs.rules),
		"explicit_buckets", len(rs.explicit),
		"non_explicit_buckets", len(rs.nonExplicit),
		"potential_collisions", len(rs.collisions),
	)

	return rs, nil
}

// Rules returns the rules in declaration order.
func (rs *RuleSet) Rules() []*Rule {
	return slices.Clone(rs.rules)
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// HandledTags returns every tag the set can consume: master tags plus the
// union of all from sets.
func (rs *RuleSet) HandledTags() *tag.TagSet {
	return rs.handled
}

// PotentialCollisions lists same-priority non-explicit rule pairs that can
// match the same tag set. They are legal; Collapse explores both branches
// when it meets one.
func (rs *RuleSet) PotentialCollisions() []Collision {
	return slices.Clone(rs.collisions)
}

// matchingExplicit finds the explicit rule whose from equals tags.
// At most one can match because same-size explicit rules never share a
// from set.
func (rs *RuleSet) matchingExplicit(tags *tag.TagSet) *Rule {
	for _, r := range rs.explicit[tags.Len()] {
		if r.Matches(tags) {
			return r
		}
	}
	return nil
}

// matchingNonExplicit returns every matching rule of the highest-priority
// bucket that has at least one match.
func (rs *RuleSet) matchingNonExplicit(tags *tag.TagSet) []*Rule {
	for _, p := range rs.priorities {
		var matching []*Rule
		for _, r := range rs.nonExplicit[p] {
			if r.Matches(tags) {
				matching = append(matching, r)
			}
		}
		if len(matching) > 0 {
			return matching
		}
	}
	return nil
}
