package game

import "fmt"

// Role is a part a player plays. Each player holds one or more roles.
//
// Implementations must be immutable: state changes go through
// State.UpdateRole, which swaps in a new value.
type Role interface {
	// Name identifies the role kind and keys the role order.
	Name() string

	// Faction is the default faction of a player holding this role.
	Faction() Faction

	// MightHaveAction is false for roles that never act. Such roles need
	// no role-order entry.
	MightHaveAction() bool

	// NightAction returns the role's action for the night, or nil.
	NightAction(s *State) Action

	// DayAction returns the role's action for the day, or nil.
	DayAction(s *State) Action
}

// Faction is a team that can win the game.
type Faction interface {
	Name() string

	// IsWerewolfFaction marks the factions the village must eliminate.
	IsWerewolfFaction() bool

	// HasWon evaluates the win condition against s.
	HasWon(s *State) bool
}

// Blueprint builds a role for a named player at setup.
type Blueprint interface {
	RoleName() string
	Build(playerName string) Role
}

// BlueprintFunc adapts a constructor to Blueprint.
type BlueprintFunc struct {
	Name string
	Func func(playerName string) Role
}

func (b BlueprintFunc) RoleName() string { return b.Name }
func (b BlueprintFunc) Build(playerName string) Role { return b.Func(playerName) }

// RoleRef locates a role in any state snapshot by player and role name.
// Actions keep a RoleRef instead of the role value so they stay valid as
// the state is replaced.
type RoleRef struct {
	Player string `json:"player"`
	Role   string `json:"role"`
}

func (r RoleRef) String() string {
	return r.Player + "/" + r.Role
}

// Resolve finds the referenced role in s.
func (r RoleRef) Resolve(s *State) (Role, error) {
	p, err := s.Player(r.Player)
	if err != nil {
		return nil, err
	}
	role, ok := p.Role(r.Role)
	if !ok {
		return nil, &GameError{
			Code:    ErrCodeUnknownRole,
			Message: fmt.Sprintf("player %q has no role %q", r.Player, r.Role),
			State:   s.actionState,
			Player:  r.Player,
		}
	}
	return role, nil
}

// RoleAs resolves ref and asserts the concrete role type.
func RoleAs[R Role](s *State, ref RoleRef) (R, error) {
	var zero R
	role, err := ref.Resolve(s)
	if err != nil {
		return zero, err
	}
	typed, ok := role.(R)
	if !ok {
		return zero, &GameError{
			Code:    ErrCodeUnknownRole,
			Message: fmt.Sprintf("role %s is %T, not %T", ref, role, zero),
			State:   s.actionState,
			Player:  ref.Player,
		}
	}
	return typed, nil
}

// BaseRole carries the fields every role has and the common defaults.
// Embed it and implement NightAction.
type BaseRole struct {
	name    string
	faction Faction
	loc     RoleRef
}

// NewBaseRole builds the embedded part of a role held by playerName.
func NewBaseRole(roleName string, faction Faction, playerName string) BaseRole {
	return BaseRole{
		name:    roleName,
		faction: faction,
		loc:     RoleRef{Player: playerName, Role: roleName},
	}
}

func (b BaseRole) Name() string { return b.name }
func (b BaseRole) Faction() Faction { return b.faction }
func (b BaseRole) MightHaveAction() bool { return true }

// Location references this role in any snapshot.
func (b BaseRole) Location() RoleRef { return b.loc }

// DayAction defaults to no action.
func (b BaseRole) DayAction(*State) Action { return nil }
