package roles

import "github.com/roach88/werewolf/internal/game"

// Faction names.
const (
	VillageFaction  = "village"
	WerewolfFaction = "werewolves"
)

// baseFaction identifies factions by name.
type baseFaction struct {
	name     string
	werewolf bool
}

func (f baseFaction) Name() string { return f.name }
func (f baseFaction) IsWerewolfFaction() bool { return f.werewolf }

// Village wins once every player of a werewolf faction is dead.
type Village struct{ baseFaction }

// NewVillage returns the village faction.
func NewVillage() Village {
	return Village{baseFaction{name: VillageFaction}}
}

func (Village) HasWon(s *game.State) bool {
	for _, p := range s.Players().All() {
		if p.IsAlive() && isWerewolfPlayer(p) {
			return false
		}
	}
	return true
}

// Werewolves win once every living player belongs to a werewolf faction.
type Werewolves struct{ baseFaction }

// NewWerewolves returns the werewolf faction.
func NewWerewolves() Werewolves {
	return Werewolves{baseFaction{name: WerewolfFaction, werewolf: true}}
}

func (Werewolves) HasWon(s *game.State) bool {
	for _, p := range s.LivingPlayers() {
		if !isWerewolfPlayer(p) {
			return false
		}
	}
	return true
}

func isWerewolfPlayer(p game.Player) bool {
	f := p.ActiveFaction()
	return f != nil && f.IsWerewolfFaction()
}
