package roles

import (
	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/tag"
)

const (
	// WerewolfName is the werewolf role name.
	WerewolfName = "werewolf"

	// KilledByWerewolvesID marks the pack's victim.
	KilledByWerewolvesID = "killed_by_werewolves"
)

// Werewolf belongs to the pack. The pack picks one victim per night; the
// first living werewolf in seat order issues the action for all of them.
type Werewolf struct {
	game.BaseRole
}

// NewWerewolf builds the werewolf role for player.
func NewWerewolf(player string) Werewolf {
	return Werewolf{game.NewBaseRole(WerewolfName, NewWerewolves(), player)}
}

func (w Werewolf) NightAction(s *game.State) game.Action {
	pack := livingHolders(s, WerewolfName)
	if len(pack) == 0 || pack[0] != w.Location().Player {
		return nil
	}
	return game.Typed[WerewolfRequest, WerewolfResponse](WerewolfName, w.Location().Player, werewolfAction{origin: w.Location()})
}

// WerewolfRequest lists the pack and the players it can attack.
type WerewolfRequest struct {
	Pack       []string `json:"pack"`
	Candidates []string `json:"candidates"`
}

func (WerewolfRequest) Kind() string { return WerewolfName }

// WerewolfResponse names the victim. Empty means the pack spares everyone.
type WerewolfResponse struct {
	Target string `json:"target,omitempty"`
}

func (WerewolfResponse) Kind() string { return WerewolfName }

type werewolfAction struct {
	origin game.RoleRef
}

func (a werewolfAction) Request(s *game.State) (WerewolfRequest, error) {
	req := WerewolfRequest{Pack: livingHolders(s, WerewolfName), Candidates: []string{}}
	for _, p := range s.LivingPlayers() {
		if _, ok := p.Role(WerewolfName); !ok {
			req.Candidates = append(req.Candidates, p.Name())
		}
	}
	return req, nil
}

func (a werewolfAction) Apply(s *game.State, resp WerewolfResponse) (*game.State, error) {
	if resp.Target == "" {
		return s, nil
	}
	if err := s.CheckAlive(resp.Target); err != nil {
		return nil, err
	}
	cause := tag.Provenance{Action: WerewolfName, Actor: a.origin.Player}
	return s.TagPlayer(resp.Target, tag.NewCaused(KilledByWerewolvesID, cause))
}

// livingHolders returns the living players holding role, in seat order.
func livingHolders(s *game.State, role string) []string {
	out := []string{}
	for _, p := range s.LivingPlayers() {
		if _, ok := p.Role(role); ok {
			out = append(out, p.Name())
		}
	}
	return out
}
