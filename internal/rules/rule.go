package rules

import (
	"fmt"

	"github.com/roach88/werewolf/internal/tag"
)

// maxRuleSide bounds |from| and |to| so both fit the priority key.
const maxRuleSide = 0xFFFF

// Rule is an immutable reduction From -> To.
//
// An explicit rule only applies when a tag set equals From exactly and
// replaces the whole set with To. A non-explicit rule applies whenever From
// is a subset of the tag set and only rewrites the matched part.
type Rule struct {
	from     *tag.TagSet
	to       *tag.TagSet
	explicit bool
}

// NewRule validates and builds a rule.
//
// From must be non-empty. To must differ from From and be no larger than it.
// To may only hold a master tag when that master tag is its sole member.
func NewRule(from, to *tag.TagSet, explicit bool) (*Rule, error) {
	if from == nil {
		from = tag.Empty()
	}
	if to == nil {
		to = tag.Empty()
	}
	r := &Rule{from: from, to: to, explicit: explicit}

	if from.Len() == 0 {
		return nil, &RuleError{
			Code:    ErrCodeEmptyFrom,
			Message: "cannot create a rule for an empty from set",
			Rules:   []string{r.String()},
		}
	}
	if to.Len() > from.Len() {
		return nil, &RuleError{
			Code:    ErrCodeNonReducing,
			Message: "cannot collapse tags to a larger tag set",
			Rules:   []string{r.String()},
		}
	}
	if to.Equal(from) {
		return nil, &RuleError{
			Code:    ErrCodeNonReducing,
			Message: "cannot collapse a tag set to itself",
			Rules:   []string{r.String()},
		}
	}
	if from.Len() > maxRuleSide {
		return nil, &RuleError{
			Code:    ErrCodePriorityOverflow,
			Message: fmt.Sprintf("from and to may not exceed %d tags", maxRuleSide),
		}
	}

	masters := 0
	for _, t := range to.Tags() {
		if t.IsMaster() {
			masters++
		}
	}
	if masters > 0 && to.Len() != 1 {
		return nil, &RuleError{
			Code:    ErrCodeMultipleMasterTags,
			Message: "a rule can collapse to one single master tag or to any number of ordinary tags",
			Rules:   []string{r.String()},
		}
	}

	return r, nil
}

// MustRule is like NewRule but panics on error.
// Use only in tests or for rules known to be valid.
func MustRule(from, to *tag.TagSet, explicit bool) *Rule {
	r, err := NewRule(from, to, explicit)
	if err != nil {
		panic(err)
	}
	return r
}

// From returns the antecedent.
func (r *Rule) From() *tag.TagSet { return r.from }

// To returns the consequent template.
func (r *Rule) To() *tag.TagSet { return r.to }

// Explicit reports whether the rule only matches its exact antecedent.
func (r *Rule) Explicit() bool { return r.explicit }

// Matches reports whether the rule applies to tags.
func (r *Rule) Matches(tags *tag.TagSet) bool {
	if r.explicit {
		return r.from.Equal(tags)
	}
	return r.from.IsSubsetOf(tags)
}

// Collapse applies one reduction step.
//
// Template tags in To are swapped for the matching instances in tags so
// provenance survives the rewrite.
func (r *Rule) Collapse(tags *tag.TagSet) (*tag.TagSet, error) {
	if !r.Matches(tags) {
		return nil, &RuleError{
			Code:    ErrCodeRuleMismatch,
			Message: "cannot collapse tags the rule does not match",
			Rules:   []string{r.String()},
			Tags:    tags.String(),
		}
	}

	adjusted := r.to
	for _, t := range tags.Tags() {
		adjusted = adjusted.ReplaceIfExists(t)
	}

	if r.explicit {
		return adjusted, nil
	}
	return tags.Except(r.from).Union(adjusted), nil
}

// CollidesWith reports whether some tag set could match both rules.
func (r *Rule) CollidesWith(other *Rule) bool {
	if r.from.Equal(other.from) {
		return true
	}
	switch {
	case r.explicit && other.explicit:
		return false
	case !r.explicit && !other.explicit:
		return true
	case !r.explicit:
		return r.from.IsSubsetOf(other.from)
	default:
		return r.from.IsSupersetOf(other.from)
	}
}

// Equal reports whether both rules have the same sides and kind.
func (r *Rule) Equal(other *Rule) bool {
	return r.explicit == other.explicit && r.from.Equal(other.from) && r.to.Equal(other.to)
}

// String renders explicit rules as [from -> to] and others as (from -> to).
func (r *Rule) String() string {
	if r.explicit {
		return fmt.Sprintf("[%s -> %s]", r.from, r.to)
	}
	return fmt.Sprintf("(%s -> %s)", r.from, r.to)
}

// priority orders non-explicit rules: maximize |from|, then minimize |to|.
// The high half holds |from|, the low half the complement of |to|.
func (r *Rule) priority() uint32 {
	return uint32(r.from.Len())<<16 | (maxRuleSide - uint32(r.to.Len()))
}
