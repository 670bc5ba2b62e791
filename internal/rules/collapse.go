package rules

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/werewolf/internal/tag"
)

// Step records one rewrite performed during a collapse.
type Step struct {
	// Rules holds the applied rule, or every colliding rule when several
	// matched at the same priority.
	Rules []*Rule

	// Before and After are the tag sets around the rewrite.
	Before *tag.TagSet
	After  *tag.TagSet

	// Branched is true when the colliding rules opened distinct paths that
	// were fully collapsed and converged on After.
	Branched bool
}

// String renders the step as before => after via rules.
func (s Step) String() string {
	kind := "via"
	if s.Branched {
		kind = "converged via"
	}
	return fmt.Sprintf("%s => %s %s %s", s.Before, s.After, kind, strings.Join(ruleStrings(s.Rules), ", "))
}

// Collapse reduces playerTags until only master tags remain.
//
// If playerTags is already fully collapsed it is returned as is (the same
// pointer). A returned set is always fully collapsed; any configuration gap
// is reported as a *RuleError.
func (rs *RuleSet) Collapse(playerTags *tag.TagSet) (*tag.TagSet, error) {
	return rs.collapse(playerTags, 0, nil)
}

// Explain collapses playerTags and also returns every rewrite step taken at
// the top level. Branches explored to recover from a collision appear as a
// single Branched step.
func (rs *RuleSet) Explain(playerTags *tag.TagSet) (*tag.TagSet, []Step, error) {
	var steps []Step
	collapsed, err := rs.collapse(playerTags, 0, &steps)
	return collapsed, steps, err
}

func (rs *RuleSet) collapse(playerTags *tag.TagSet, depth int, steps *[]Step) (*tag.TagSet, error) {
	if playerTags.IsFullyCollapsed() {
		return playerTags, nil
	}

	if unhandled := playerTags.Except(rs.handled); unhandled.Len() > 0 {
		return nil, &RuleError{
			Code:    ErrCodeUnhandledTag,
			Message: fmt.Sprintf("tags %s are not present in any rule of this ruleset", unhandled),
			Tags:    unhandled.String(),
			Details: map[string]string{"input": playerTags.String()},
		}
	}

	// Each branch closes strictly more of the rewrite; deeper than the
	// number of rules means a cycle.
	if depth > len(rs.rules) {
		return nil, &RuleError{
			Code:    ErrCodeNonTerminating,
			Message: fmt.Sprintf("branch exploration exceeded depth %d", len(rs.rules)),
			Tags:    playerTags.String(),
		}
	}

	budget := newStepBudget(rs.stepLimit)
	current := playerTags
	for {
		if err := budget.Check(current.String()); err != nil {
			return nil, err
		}

		next, done, err := rs.collapseOneStep(playerTags, current, depth, steps)
		if err != nil {
			return nil, err
		}
		if done || next.IsFullyCollapsed() {
			slog.Debug("tags collapsed", "from", playerTags, "to", next, "steps", budget.Used())
			return next, nil
		}
		current = next
	}
}

// collapseOneStep performs one rewrite of current. done is true when the
// result came from branch convergence and is therefore final.
func (rs *RuleSet) collapseOneStep(original, current *tag.TagSet, depth int, steps *[]Step) (*tag.TagSet, bool, error) {
	if r := rs.matchingExplicit(current); r != nil {
		next, err := r.Collapse(current)
		if err != nil {
			return nil, false, err
		}
		record(steps, Step{Rules: []*Rule{r}, Before: current, After: next})
		return next, false, nil
	}

	matching := rs.matchingNonExplicit(current)
	switch len(matching) {
	case 0:
		return nil, false, &RuleError{
			Code:    ErrCodeNoMatchingRule,
			Message: fmt.Sprintf("this ruleset cannot fully collapse %s; no matching rule found for %s", original, current),
			Tags:    current.String(),
		}
	case 1:
		next, err := matching[0].Collapse(current)
		if err != nil {
			return nil, false, err
		}
		record(steps, Step{Rules: matching, Before: current, After: next})
		return next, false, nil
	}

	// Several rules at the same priority. If they agree on the next step it
	// does not matter which one applies.
	branches := make([]*tag.TagSet, 0, len(matching))
	for _, r := range matching {
		next, err := r.Collapse(current)
		if err != nil {
			return nil, false, err
		}
		branches = appendDistinct(branches, next)
	}
	if len(branches) == 1 {
		record(steps, Step{Rules: matching, Before: current, After: branches[0]})
		return branches[0], false, nil
	}

	slog.Debug("rule collision, exploring branches",
		"tags", current,
		"rules", strings.Join(ruleStrings(matching), ", "),
		"branches", len(branches),
	)

	var ends []*tag.TagSet
	for _, branch := range branches {
		end, err := rs.collapse(branch, depth+1, nil)
		if err != nil {
			return nil, false, fmt.Errorf("branch %s -> %s opened by %s: %w",
				current, branch, strings.Join(ruleStrings(matching), ", "), err)
		}
		ends = appendDistinct(ends, end)
	}
	if len(ends) == 1 {
		record(steps, Step{Rules: matching, Before: current, After: ends[0], Branched: true})
		return ends[0], true, nil
	}

	endStrings := make([]string, len(ends))
	for i, e := range ends {
		endStrings[i] = e.String()
	}
	return nil, false, &RuleError{
		Code:    ErrCodeIrreconcilableCollision,
		Message: fmt.Sprintf("colliding rules open branches %s collapsing into distinct end results %s", visualizeBranches(current, branches), strings.Join(endStrings, ", ")),
		Rules:   ruleStrings(matching),
		Tags:    current.String(),
	}
}

func record(steps *[]Step, s Step) {
	if steps != nil {
		*steps = append(*steps, s)
	}
}

// appendDistinct appends s unless an equal set is already present. The
// first instance wins.
func appendDistinct(sets []*tag.TagSet, s *tag.TagSet) []*tag.TagSet {
	for _, existing := range sets {
		if existing.Equal(s) {
			return sets
		}
	}
	return append(sets, s)
}

func visualizeBranches(start *tag.TagSet, continuations []*tag.TagSet) string {
	parts := make([]string, len(continuations))
	for i, c := range continuations {
		parts[i] = fmt.Sprintf("%s -> %s", start, c)
	}
	return strings.Join(parts, ", ")
}
