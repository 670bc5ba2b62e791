package game

import (
	"fmt"

	"github.com/roach88/werewolf/internal/tag"
)

// ApplyMasterTags turns a player's collapsed tags into state changes.
//
// No tags leaves the player as is. A lone Killed marks the player dead and
// clears the tags. Every other configuration has no defined consequence
// yet and fails with UNSUPPORTED_OUTCOME.
func ApplyMasterTags(p Player) (Player, error) {
	if !p.tags.IsFullyCollapsed() {
		return p, &GameError{
			Code:    ErrCodeInvalidState,
			Message: fmt.Sprintf("tags %s are not fully collapsed", p.tags),
			State:   AwaitingTagConsequences,
			Player:  p.name,
		}
	}

	switch {
	case p.tags.Len() == 0:
		return p, nil
	case p.tags.Len() == 1 && p.tags.Contains(tag.Killed):
		if !p.IsAlive() {
			return p, &GameError{
				Code:    ErrCodePlayerAlreadyDead,
				Message: "cannot kill a dead player",
				State:   AwaitingTagConsequences,
				Player:  p.name,
			}
		}
		return p.Killed().WithTags(tag.Empty()), nil
	default:
		return p, &GameError{
			Code:    ErrCodeUnsupportedOutcome,
			Message: fmt.Sprintf("no consequence is defined for %s", p.tags),
			State:   AwaitingTagConsequences,
			Player:  p.name,
		}
	}
}
