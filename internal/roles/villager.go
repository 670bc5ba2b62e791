package roles

import "github.com/roach88/werewolf/internal/game"

// VillagerName is the villager role name.
const VillagerName = "villager"

// Villager never acts; it only votes during the day.
type Villager struct {
	game.BaseRole
}

// NewVillager builds the villager role for player.
func NewVillager(player string) Villager {
	return Villager{game.NewBaseRole(VillagerName, NewVillage(), player)}
}

func (Villager) MightHaveAction() bool { return false }
func (Villager) NightAction(*game.State) game.Action { return nil }
