package roles

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/werewolf/internal/game"
)

var responseFields = map[string][]string{
	WerewolfName:     {"target"},
	WitchName:        {"heal", "kill"},
	GuardianName:     {"target"},
	game.DayVoteKind: {"voted_out"},
}

// DecodeResponse builds the input response of the given kind from named
// string fields, as found in scenario files and on the command line.
// Missing fields are empty; unknown fields are rejected.
func DecodeResponse(kind string, fields map[string]string) (game.InputResponse, error) {
	allowed, ok := responseFields[kind]
	if !ok {
		return nil, fmt.Errorf("unknown response kind %q", kind)
	}
	for k := range fields {
		if !slices.Contains(allowed, k) {
			return nil, fmt.Errorf("response kind %q has no field %q (allowed: %s)", kind, k, strings.Join(allowed, ", "))
		}
	}

	switch kind {
	case WerewolfName:
		return WerewolfResponse{Target: fields["target"]}, nil
	case WitchName:
		return WitchResponse{Heal: fields["heal"], Kill: fields["kill"]}, nil
	case GuardianName:
		return GuardianResponse{Target: fields["target"]}, nil
	default:
		return game.DayVotingResponse{VotedOut: fields["voted_out"]}, nil
	}
}
