package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/werewolf/internal/store"
)

// AssertionError is returned when an assertion fails.
// It carries the full trace so the failure can be read in context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []store.EventRecord
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, rec := range e.Trace {
			fmt.Fprintf(&buf, "  %s\n", FormatEvent(rec))
		}
	}
	return buf.String()
}

// matches reports whether rec is an event of the assertion's kind, player
// and detail. Player and detail only constrain when set; detail is a subset
// match.
func matches(rec store.EventRecord, a Assertion) bool {
	if rec.Kind != a.Kind {
		return false
	}
	if a.Player != "" && rec.Player != a.Player {
		return false
	}
	for k, want := range a.Detail {
		if got, ok := rec.Detail[k]; !ok || got != want {
			return false
		}
	}
	return true
}

func describe(a Assertion) string {
	var b strings.Builder
	b.WriteString(a.Kind)
	if a.Player != "" {
		fmt.Fprintf(&b, " for %s", a.Player)
	}
	if len(a.Detail) > 0 {
		fmt.Fprintf(&b, " with %s", formatDetail(a.Detail))
	}
	return b.String()
}

func assertTraceContains(trace []store.EventRecord, a Assertion) error {
	for _, rec := range trace {
		if matches(rec, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describe(a),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the kinds appear as a subsequence of the
// trace. Other events may sit between them, and a kind listed twice must
// occur twice.
func assertTraceOrder(trace []store.EventRecord, a Assertion) error {
	next := 0
	for _, rec := range trace {
		if next < len(a.Kinds) && rec.Kind == a.Kinds[next] {
			next++
		}
	}
	if next == len(a.Kinds) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("kinds in order: %v", a.Kinds),
		Actual:   fmt.Sprintf("matched %v, then no %s", a.Kinds[:next], a.Kinds[next]),
		Trace:    trace,
	}
}

// assertTraceCount counts matching events. With a store the count comes
// from the journal's kind index, otherwise from the in-memory trace.
func assertTraceCount(trace []store.EventRecord, a Assertion, actx *AssertionContext) error {
	candidates := trace
	if actx != nil && actx.Store != nil {
		recs, err := actx.Store.ReadEventsOfKind(actx.ctx(), actx.GameID, a.Kind)
		if err != nil {
			return fmt.Errorf("trace_count: %w", err)
		}
		candidates = recs
	}

	count := 0
	for _, rec := range candidates {
		if matches(rec, a) {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d occurrences of %s", a.Count, describe(a)),
		Actual:   fmt.Sprintf("%d occurrences", count),
		Trace:    trace,
	}
}

// AssertionContext gives assertions access to the journal.
type AssertionContext struct {
	Store  *store.Store
	Ctx    context.Context
	GameID string
}

func (a *AssertionContext) ctx() context.Context {
	if a.Ctx == nil {
		return context.Background()
	}
	return a.Ctx
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// actx may be nil; counts then use the in-memory trace.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a, actx)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
