package game

import (
	"encoding/json"
	"slices"

	"github.com/roach88/werewolf/internal/tag"
)

// PlayerState is whether a player still takes part.
type PlayerState int

const (
	Alive PlayerState = iota
	Dead
)

func (s PlayerState) String() string {
	if s == Dead {
		return "Dead"
	}
	return "Alive"
}

// MarshalText renders the state name.
func (s PlayerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Player is an immutable participant. Every With method returns a copy.
//
// Dead players stay in the circle for win conditions and neighbor lookups.
type Player struct {
	name    string
	state   PlayerState
	tags    *tag.TagSet
	roles   []Role
	faction Faction
}

// NewPlayer creates a live, untagged player. The active faction is the
// faction of the first role.
func NewPlayer(name string, roles ...Role) Player {
	p := Player{
		name:  name,
		state: Alive,
		tags:  tag.Empty(),
		roles: slices.Clone(roles),
	}
	if len(roles) > 0 {
		p.faction = roles[0].Faction()
	}
	return p
}

// FromBlueprint creates a player holding the role bp builds for name.
func FromBlueprint(name string, bp Blueprint) Player {
	return NewPlayer(name, bp.Build(name))
}

func (p Player) Name() string { return p.name }
func (p Player) State() PlayerState { return p.state }
func (p Player) IsAlive() bool { return p.state == Alive }
func (p Player) Tags() *tag.TagSet { return p.tags }
func (p Player) ActiveFaction() Faction { return p.faction }
func (p Player) Roles() []Role { return slices.Clone(p.roles) }

// Role finds a held role by name.
func (p Player) Role(name string) (Role, bool) {
	for _, r := range p.roles {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// WithTag returns the player with t added to its tags.
func (p Player) WithTag(t tag.Tag) Player {
	p.tags = p.tags.Add(t)
	return p
}

// WithTags returns the player with its tags replaced.
func (p Player) WithTags(tags *tag.TagSet) Player {
	if tags == nil {
		tags = tag.Empty()
	}
	p.tags = tags
	return p
}

// Killed returns the player marked dead.
func (p Player) Killed() Player {
	p.state = Dead
	return p
}

// WithFaction returns the player with a different active faction.
func (p Player) WithFaction(f Faction) Player {
	p.faction = f
	return p
}

// WithRole returns the player with the held role of the same name replaced
// by r. The second result is false when no such role is held.
func (p Player) WithRole(r Role) (Player, bool) {
	i := slices.IndexFunc(p.roles, func(held Role) bool { return held.Name() == r.Name() })
	if i < 0 {
		return p, false
	}
	p.roles = slices.Clone(p.roles)
	p.roles[i] = r
	return p, true
}

// MarshalJSON renders the player for diagnostics.
func (p Player) MarshalJSON() ([]byte, error) {
	roles := make([]string, len(p.roles))
	for i, r := range p.roles {
		roles[i] = r.Name()
	}
	faction := ""
	if p.faction != nil {
		faction = p.faction.Name()
	}
	return json.Marshal(struct {
		Name    string      `json:"name"`
		State   PlayerState `json:"state"`
		Tags    *tag.TagSet `json:"tags"`
		Roles   []string    `json:"roles"`
		Faction string      `json:"faction,omitempty"`
	}{p.name, p.state, p.tags, roles, faction})
}
