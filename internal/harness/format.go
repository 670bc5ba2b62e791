package harness

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/roach88/werewolf/internal/store"
)

// FormatEvent renders one journaled event on a single line:
//
//	3 Night 1 AwaitingTagConsequences tags_collapsed Vera after="{'Killed'}" before="{'killed_by_werewolves'}"
//
// Detail keys are sorted, so the same event always renders the same way.
func FormatEvent(rec store.EventRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s %d %s %s", rec.Seq, rec.Phase, rec.Round, rec.ActionState, rec.Kind)
	if rec.Player != "" {
		b.WriteByte(' ')
		b.WriteString(rec.Player)
	}
	if len(rec.Detail) > 0 {
		b.WriteByte(' ')
		b.WriteString(formatDetail(rec.Detail))
	}
	return b.String()
}

// FormatTrace writes one FormatEvent line per record.
func FormatTrace(w io.Writer, trace []store.EventRecord) error {
	for _, rec := range trace {
		if _, err := fmt.Fprintln(w, FormatEvent(rec)); err != nil {
			return err
		}
	}
	return nil
}

func formatDetail(detail map[string]string) string {
	keys := make([]string, 0, len(detail))
	for k := range detail {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, detail[k]))
	}
	return strings.Join(parts, " ")
}
