package game

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/roach88/werewolf/internal/tag"
)

// State is an immutable snapshot of a game. Every operation that changes
// the game returns a new State; the receiver is never modified.
type State struct {
	phase       Phase
	round       int
	actionState ActionState
	winner      Faction
	players     *PlayerCircle
	current     Action
	next        []Action
}

// NewState returns the opening snapshot: night of round one, awaiting
// action gathering.
func NewState(players *PlayerCircle) *State {
	return &State{
		phase:       Night,
		round:       1,
		actionState: AwaitingActionGathering,
		players:     players,
	}
}

func (s *State) Phase() Phase { return s.phase }
func (s *State) Round() int { return s.round }
func (s *State) ActionState() ActionState { return s.actionState }
func (s *State) Players() *PlayerCircle { return s.players }
func (s *State) CurrentAction() Action { return s.current }
func (s *State) PendingActions() []Action { return slices.Clone(s.next) }

// Winner returns the winning faction once the game has ended. It is nil
// while the game runs and when every player died.
func (s *State) Winner() Faction { return s.winner }

// with returns a shallow copy of s with fn applied.
func (s *State) with(fn func(*State)) *State {
	next := *s
	fn(&next)
	return &next
}

// Player looks up a player by name.
func (s *State) Player(name string) (Player, error) {
	p, ok := s.players.Get(name)
	if !ok {
		err := unknownPlayer(name)
		err.State = s.actionState
		return Player{}, err
	}
	return p, nil
}

// IsAlive reports whether name is a live player. Unknown names are not alive.
func (s *State) IsAlive(name string) bool {
	p, ok := s.players.Get(name)
	return ok && p.IsAlive()
}

// HasTag reports whether name currently carries the tag id.
func (s *State) HasTag(name, id string) bool {
	p, ok := s.players.Get(name)
	return ok && p.tags.Contains(tag.New(id))
}

// CheckAlive fails unless name is a live player. Actions call it before
// accepting a target.
func (s *State) CheckAlive(name string) error {
	p, err := s.Player(name)
	if err != nil {
		return err
	}
	if !p.IsAlive() {
		return &GameError{
			Code:    ErrCodePlayerDead,
			Message: fmt.Sprintf("player %q is dead", name),
			State:   s.actionState,
			Player:  name,
		}
	}
	return nil
}

// UpdatePlayer replaces the player called name with fn's result.
func (s *State) UpdatePlayer(name string, fn func(Player) (Player, error)) (*State, error) {
	p, err := s.Player(name)
	if err != nil {
		return nil, err
	}
	updated, err := fn(p)
	if err != nil {
		return nil, err
	}
	players, err := s.players.Replace(updated)
	if err != nil {
		return nil, err
	}
	return s.with(func(n *State) { n.players = players }), nil
}

// TagPlayer adds t to the tags of name.
func (s *State) TagPlayer(name string, t tag.Tag) (*State, error) {
	return s.UpdatePlayer(name, func(p Player) (Player, error) {
		return p.WithTag(t), nil
	})
}

// KillPlayer marks name dead. Killing a dead player is an error.
func (s *State) KillPlayer(name string) (*State, error) {
	return s.UpdatePlayer(name, func(p Player) (Player, error) {
		if !p.IsAlive() {
			return p, &GameError{
				Code:    ErrCodePlayerAlreadyDead,
				Message: fmt.Sprintf("player %q is already dead", name),
				State:   s.actionState,
				Player:  name,
			}
		}
		return p.Killed(), nil
	})
}

// Role resolves ref in this snapshot.
func (s *State) Role(ref RoleRef) (Role, error) {
	return ref.Resolve(s)
}

// UpdateRole replaces the role ref points to with fn's result. The new
// role must keep the same name.
func (s *State) UpdateRole(ref RoleRef, fn func(Role) (Role, error)) (*State, error) {
	return s.UpdatePlayer(ref.Player, func(p Player) (Player, error) {
		role, ok := p.Role(ref.Role)
		if !ok {
			return p, &GameError{
				Code:    ErrCodeUnknownRole,
				Message: fmt.Sprintf("player %q has no role %q", ref.Player, ref.Role),
				State:   s.actionState,
				Player:  ref.Player,
			}
		}
		updated, err := fn(role)
		if err != nil {
			return p, err
		}
		next, ok := p.WithRole(updated)
		if !ok || updated.Name() != ref.Role {
			return p, &GameError{
				Code:    ErrCodeUnknownRole,
				Message: fmt.Sprintf("role %s was replaced by a role named %q", ref, updated.Name()),
				State:   s.actionState,
				Player:  ref.Player,
			}
		}
		return next, nil
	})
}

// FactionsInPlay returns the distinct active factions of all players, dead
// or alive, in seat order of first appearance. Factions are identified by
// name.
func (s *State) FactionsInPlay() []Faction {
	var out []Faction
	seen := make(map[string]bool)
	for _, p := range s.players.players {
		if p.faction == nil || seen[p.faction.Name()] {
			continue
		}
		seen[p.faction.Name()] = true
		out = append(out, p.faction)
	}
	return out
}

// RolesInPlay returns every role of every player in seat order.
func (s *State) RolesInPlay() []Role {
	var out []Role
	for _, p := range s.players.players {
		out = append(out, p.roles...)
	}
	return out
}

// LivingPlayers returns the live players in seat order.
func (s *State) LivingPlayers() []Player {
	var out []Player
	for _, p := range s.players.players {
		if p.IsAlive() {
			out = append(out, p)
		}
	}
	return out
}

// MarshalJSON renders the snapshot for diagnostics.
func (s *State) MarshalJSON() ([]byte, error) {
	out := struct {
		Phase       Phase         `json:"phase"`
		Round       int           `json:"round"`
		ActionState ActionState   `json:"action_state"`
		Winner      string        `json:"winner,omitempty"`
		Players     *PlayerCircle `json:"players"`
		Current     string        `json:"current_action,omitempty"`
		Pending     []string      `json:"pending_actions,omitempty"`
	}{
		Phase:       s.phase,
		Round:       s.round,
		ActionState: s.actionState,
		Players:     s.players,
	}
	if s.winner != nil {
		out.Winner = s.winner.Name()
	}
	if s.current != nil {
		out.Current = s.current.Name()
	}
	for _, a := range s.next {
		out.Pending = append(out.Pending, a.Name())
	}
	return json.Marshal(out)
}
