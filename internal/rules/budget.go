package rules

import "fmt"

// stepBudget bounds the number of rewrite steps a single collapse may take.
//
// A rewriting system with N rules that has not terminated after N steps is
// treated as non-terminating. Recursive branch exploration gets a fresh
// budget per branch but is bounded separately by depth (see collapse).
type stepBudget struct {
	limit   int
	current int
}

func newStepBudget(limit int) *stepBudget {
	return &stepBudget{limit: limit}
}

// Check consumes one step and fails once the limit is exceeded.
func (b *stepBudget) Check(tags string) error {
	b.current++
	if b.current > b.limit {
		return &RuleError{
			Code:    ErrCodeNonTerminating,
			Message: fmt.Sprintf("tags could not be fully collapsed within %d steps", b.limit),
			Tags:    tags,
			Details: map[string]string{
				"steps": fmt.Sprintf("%d", b.current-1),
				"limit": fmt.Sprintf("%d", b.limit),
			},
		}
	}
	return nil
}

// Used returns how many steps have been consumed.
func (b *stepBudget) Used() int {
	return b.current
}
