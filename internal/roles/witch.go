package roles

import (
	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/tag"
)

const (
	// WitchName is the witch role name.
	WitchName = "witch"

	// HealedByWitchID marks the player the witch heals.
	HealedByWitchID = "healed_by_witch"

	// KilledByWitchID marks the player the witch poisons.
	KilledByWitchID = "killed_by_witch"
)

// Witch holds a limited number of heal and kill spells. She acts after the
// werewolves and learns their victim.
type Witch struct {
	game.BaseRole
	heal int
	kill int
}

// NewWitch builds the witch role for player with the given spell counts.
func NewWitch(player string, healSpells, killSpells int) Witch {
	return Witch{
		BaseRole: game.NewBaseRole(WitchName, NewVillage(), player),
		heal:     healSpells,
		kill:     killSpells,
	}
}

// HealSpells returns the heal spells left.
func (w Witch) HealSpells() int { return w.heal }

// KillSpells returns the kill spells left.
func (w Witch) KillSpells() int { return w.kill }

func (w Witch) NightAction(s *game.State) game.Action {
	if !s.IsAlive(w.Location().Player) {
		return nil
	}
	return game.Typed[WitchRequest, WitchResponse](WitchName, w.Location().Player, witchAction{origin: w.Location()})
}

// WitchRequest tells the witch who the werewolves attacked and which
// spells she has left.
type WitchRequest struct {
	WerewolfTarget string `json:"werewolf_target,omitempty"`
	HealSpells     int    `json:"heal_spells"`
	KillSpells     int    `json:"kill_spells"`
}

func (WitchRequest) Kind() string { return WitchName }

// WitchResponse names the heal and kill targets. Empty fields skip the
// spell.
type WitchResponse struct {
	Heal string `json:"heal,omitempty"`
	Kill string `json:"kill,omitempty"`
}

func (WitchResponse) Kind() string { return WitchName }

type witchAction struct {
	origin game.RoleRef
}

func (a witchAction) Request(s *game.State) (WitchRequest, error) {
	w, err := game.RoleAs[Witch](s, a.origin)
	if err != nil {
		return WitchRequest{}, err
	}
	req := WitchRequest{HealSpells: w.heal, KillSpells: w.kill}
	for _, p := range s.LivingPlayers() {
		if p.Tags().Contains(tag.New(KilledByWerewolvesID)) {
			req.WerewolfTarget = p.Name()
			break
		}
	}
	return req, nil
}

func (a witchAction) Apply(s *game.State, resp WitchResponse) (*game.State, error) {
	w, err := game.RoleAs[Witch](s, a.origin)
	if err != nil {
		return nil, err
	}
	cause := tag.Provenance{Action: WitchName, Actor: a.origin.Player}

	if resp.Heal != "" {
		if w.heal < 1 {
			return nil, game.InvalidInput(a.origin.Player, "the witch has no heal spell left")
		}
		if err := s.CheckAlive(resp.Heal); err != nil {
			return nil, err
		}
		if s, err = s.TagPlayer(resp.Heal, tag.NewCaused(HealedByWitchID, cause)); err != nil {
			return nil, err
		}
		w.heal--
	}

	if resp.Kill != "" {
		if w.kill < 1 {
			return nil, game.InvalidInput(a.origin.Player, "the witch has no kill spell left")
		}
		if err := s.CheckAlive(resp.Kill); err != nil {
			return nil, err
		}
		if s, err = s.TagPlayer(resp.Kill, tag.NewCaused(KilledByWitchID, cause)); err != nil {
			return nil, err
		}
		w.kill--
	}

	return s.UpdateRole(a.origin, func(game.Role) (game.Role, error) {
		return w, nil
	})
}
