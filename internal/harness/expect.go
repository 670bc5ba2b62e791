package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/werewolf/internal/game"
)

// checkExpectation compares the final game state with want and returns one
// message per mismatch.
func checkExpectation(g *game.Game, want Expectation) []string {
	s := g.State()
	var errs []string
	mismatch := func(field string, expected, actual any) {
		errs = append(errs, fmt.Sprintf("expect.%s: expected %v, got %v", field, expected, actual))
	}

	if want.Phase != "" && want.Phase != s.Phase().String() {
		mismatch("phase", want.Phase, s.Phase())
	}
	if want.Round != 0 && want.Round != s.Round() {
		mismatch("round", want.Round, s.Round())
	}
	if want.ActionState != "" && want.ActionState != s.ActionState().String() {
		mismatch("action_state", want.ActionState, s.ActionState())
	}

	if want.Pending != "" {
		req, err := g.CurrentInputRequest()
		switch {
		case err != nil:
			mismatch("pending", want.Pending, "no pending request")
		case req.Kind() != want.Pending:
			mismatch("pending", want.Pending, req.Kind())
		}
	}

	for _, name := range want.Alive {
		p, err := s.Player(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("expect.alive: %v", err))
		} else if !p.IsAlive() {
			mismatch("alive", name+" alive", name+" dead")
		}
	}
	for _, name := range want.Dead {
		p, err := s.Player(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("expect.dead: %v", err))
		} else if p.IsAlive() {
			mismatch("dead", name+" dead", name+" alive")
		}
	}

	if want.Winner != "" {
		got := WinnerNone
		if w := s.Winner(); w != nil {
			got = w.Name()
		}
		switch {
		case !g.Ended():
			mismatch("winner", want.Winner, "game still running")
		case got != want.Winner:
			mismatch("winner", want.Winner, got)
		}
	}

	names := make([]string, 0, len(want.Tags))
	for name := range want.Tags {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		p, err := s.Player(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("expect.tags: %v", err))
			continue
		}
		expected := slices.Sorted(slices.Values(want.Tags[name]))
		if got := p.Tags().IDs(); !slices.Equal(expected, got) {
			mismatch("tags."+name, expected, got)
		}
	}

	return errs
}
