package rules

import (
	"fmt"

	"github.com/roach88/werewolf/internal/tag"
)

// MaxAuditTags bounds the tag universe Audit will enumerate (2^n sets).
const MaxAuditTags = 16

// AuditReport summarizes an exhaustive collapse over every combination of
// the non-master tags a RuleSet handles.
type AuditReport struct {
	// Checked is the number of tag combinations collapsed.
	Checked int `json:"checked"`

	// Failures lists combinations the ruleset cannot collapse.
	Failures []AuditFailure `json:"failures,omitempty"`
}

// AuditFailure is one combination that failed to collapse.
type AuditFailure struct {
	Tags  string    `json:"tags"`
	Code  ErrorCode `json:"code"`
	Error string    `json:"error"`
}

// Audit collapses every non-empty combination of the handled non-master
// tags and reports which ones fail. Many failing combinations are tag
// mixes that cannot happen in a real game; the report lets rule authors
// decide which gaps matter.
func (rs *RuleSet) Audit() (*AuditReport, error) {
	universe := tag.Empty()
	for _, t := range rs.handled.Tags() {
		if !t.IsMaster() {
			universe = universe.Add(t)
		}
	}
	if universe.Len() > MaxAuditTags {
		return nil, fmt.Errorf("audit: %d handled tags exceeds the limit of %d", universe.Len(), MaxAuditTags)
	}

	report := &AuditReport{}
	for combination := range universe.AllCombinations(false) {
		report.Checked++
		if _, err := rs.Collapse(combination); err != nil {
			failure := AuditFailure{Tags: combination.String(), Error: err.Error()}
			if re := asRuleError(err); re != nil {
				failure.Code = re.Code
			}
			report.Failures = append(report.Failures, failure)
		}
	}
	return report, nil
}
