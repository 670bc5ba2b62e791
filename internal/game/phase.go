package game

import "fmt"

// Phase is one half of a round.
type Phase int

const (
	Night Phase = iota
	Day
)

func (p Phase) String() string {
	switch p {
	case Night:
		return "Night"
	case Day:
		return "Day"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText renders the phase name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ActionState is a state of the game machine.
//
//	AwaitingActionGathering -> AwaitingInput
//	AwaitingInput -> AwaitingInput | AwaitingTagCollapse
//	AwaitingTagCollapse -> AwaitingTagConsequences
//	AwaitingTagConsequences -> AwaitingWinConditionEvaluation
//	AwaitingWinConditionEvaluation -> GameEnded | AwaitingPhaseAdvancement
//	AwaitingPhaseAdvancement -> AwaitingActionGathering
type ActionState int

const (
	AwaitingActionGathering ActionState = iota
	AwaitingInput
	AwaitingTagCollapse
	AwaitingTagConsequences
	AwaitingWinConditionEvaluation
	AwaitingPhaseAdvancement
	GameEnded
)

var actionStateNames = [...]string{
	AwaitingActionGathering:        "AwaitingActionGathering",
	AwaitingInput:                  "AwaitingInput",
	AwaitingTagCollapse:            "AwaitingTagCollapse",
	AwaitingTagConsequences:        "AwaitingTagConsequences",
	AwaitingWinConditionEvaluation: "AwaitingWinConditionEvaluation",
	AwaitingPhaseAdvancement:       "AwaitingPhaseAdvancement",
	GameEnded:                      "GameEnded",
}

func (s ActionState) String() string {
	if s >= 0 && int(s) < len(actionStateNames) {
		return actionStateNames[s]
	}
	return fmt.Sprintf("ActionState(%d)", int(s))
}

// MarshalText renders the state name.
func (s ActionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
