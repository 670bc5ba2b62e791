package rules

import (
	"errors"
	"fmt"
	"strings"
)

// RuleError represents a rule configuration or collapse failure.
//
// Construction errors mean the rule configuration must be fixed before a
// game can run. Collapse errors mean the configuration has a gap for a tag
// combination that actually occurred. Neither is recoverable inside the
// engine.
type RuleError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Rules lists the offending rules in their String form.
	Rules []string

	// Tags is the offending tag set in its String form.
	Tags string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes rule errors.
type ErrorCode string

// Construction-time codes.
const (
	ErrCodeEmptyFrom          ErrorCode = "EMPTY_FROM"
	ErrCodeNonReducing        ErrorCode = "NON_REDUCING"
	ErrCodeMultipleMasterTags ErrorCode = "MULTIPLE_MASTER_TAGS"
	ErrCodePriorityOverflow   ErrorCode = "PRIORITY_OVERFLOW"
	ErrCodeDuplicateRule      ErrorCode = "DUPLICATE_RULE"
	ErrCodeUnreachableTag     ErrorCode = "UNREACHABLE_TAG"
	ErrCodeNoRules            ErrorCode = "NO_RULES"
	ErrCodeInvalidStepLimit   ErrorCode = "INVALID_STEP_LIMIT"
)

// Collapse-time codes.
const (
	ErrCodeRuleMismatch            ErrorCode = "RULE_MISMATCH"
	ErrCodeUnhandledTag            ErrorCode = "UNHANDLED_TAG"
	ErrCodeNoMatchingRule          ErrorCode = "NO_MATCHING_RULE"
	ErrCodeIrreconcilableCollision ErrorCode = "IRRECONCILABLE_COLLISION"
	ErrCodeNonTerminating          ErrorCode = "NON_TERMINATING"
)

var constructionCodes = map[ErrorCode]bool{
	ErrCodeEmptyFrom:          true,
	ErrCodeNonReducing:        true,
	ErrCodeMultipleMasterTags: true,
	ErrCodePriorityOverflow:   true,
	ErrCodeDuplicateRule:      true,
	ErrCodeUnreachableTag:     true,
	ErrCodeNoRules:            true,
	ErrCodeInvalidStepLimit:   true,
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Tags != "" {
		fmt.Fprintf(&b, " (tags=%s)", e.Tags)
	}
	if len(e.Rules) > 0 {
		fmt.Fprintf(&b, " (rules=%s)", strings.Join(e.Rules, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is, or wraps, a RuleError with code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsConstructionError reports whether err is a rule configuration error.
func IsConstructionError(err error) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return constructionCodes[re.Code]
	}
	return false
}

// IsCollapseError reports whether err happened while collapsing tags.
func IsCollapseError(err error) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return !constructionCodes[re.Code]
	}
	return false
}

func ruleStrings(rules []*Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.String()
	}
	return out
}

// asRuleError returns the first RuleError in err's chain, or nil.
func asRuleError(err error) *RuleError {
	var re *RuleError
	if errors.As(err, &re) {
		return re
	}
	return nil
}
