package roles

import (
	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/tag"
)

const (
	// GuardianName is the guardian role name.
	GuardianName = "guardian"

	// ProtectedByGuardianID marks the player the guardian protects.
	ProtectedByGuardianID = "protected_by_guardian"
)

// Guardian protects one player each night, never the same player two
// nights in a row.
type Guardian struct {
	game.BaseRole
	lastProtected string
}

// NewGuardian builds the guardian role for player.
func NewGuardian(player string) Guardian {
	return Guardian{BaseRole: game.NewBaseRole(GuardianName, NewVillage(), player)}
}

// LastProtected returns the player protected the night before, if any.
func (g Guardian) LastProtected() string { return g.lastProtected }

func (g Guardian) NightAction(s *game.State) game.Action {
	if !s.IsAlive(g.Location().Player) {
		return nil
	}
	return game.Typed[GuardianRequest, GuardianResponse](GuardianName, g.Location().Player, guardianAction{origin: g.Location()})
}

// GuardianRequest lists who may be protected tonight.
type GuardianRequest struct {
	LastProtected string   `json:"last_protected,omitempty"`
	Candidates    []string `json:"candidates"`
}

func (GuardianRequest) Kind() string { return GuardianName }

// GuardianResponse names the protected player. Empty protects nobody.
type GuardianResponse struct {
	Target string `json:"target,omitempty"`
}

func (GuardianResponse) Kind() string { return GuardianName }

type guardianAction struct {
	origin game.RoleRef
}

func (a guardianAction) Request(s *game.State) (GuardianRequest, error) {
	g, err := game.RoleAs[Guardian](s, a.origin)
	if err != nil {
		return GuardianRequest{}, err
	}
	req := GuardianRequest{LastProtected: g.lastProtected, Candidates: []string{}}
	for _, p := range s.LivingPlayers() {
		if p.Name() != g.lastProtected {
			req.Candidates = append(req.Candidates, p.Name())
		}
	}
	return req, nil
}

func (a guardianAction) Apply(s *game.State, resp GuardianResponse) (*game.State, error) {
	g, err := game.RoleAs[Guardian](s, a.origin)
	if err != nil {
		return nil, err
	}

	if resp.Target != "" {
		if resp.Target == g.lastProtected {
			return nil, game.InvalidInput(a.origin.Player, "cannot protect %q two nights in a row", resp.Target)
		}
		if err := s.CheckAlive(resp.Target); err != nil {
			return nil, err
		}
		cause := tag.Provenance{Action: GuardianName, Actor: a.origin.Player}
		if s, err = s.TagPlayer(resp.Target, tag.NewCaused(ProtectedByGuardianID, cause)); err != nil {
			return nil, err
		}
	}

	g.lastProtected = resp.Target
	return s.UpdateRole(a.origin, func(game.Role) (game.Role, error) {
		return g, nil
	})
}
