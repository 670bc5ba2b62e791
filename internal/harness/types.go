package harness

import (
	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step, expectation and assertion held.
	Pass bool `json:"pass"`

	// GameID is the journal ID the game was recorded under.
	GameID string `json:"game_id"`

	// Trace is the journaled event log in seq order.
	Trace []store.EventRecord `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the state the game was left in.
	Final *game.State `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []store.EventRecord{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
