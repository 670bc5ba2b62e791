package game

import (
	"github.com/roach88/werewolf/internal/tag"
)

// GodRoleName names actions the game issues itself.
const GodRoleName = "god"

// KilledByVillageID is the tag the day vote puts on the voted-out player.
const KilledByVillageID = "killed_by_village"

// GodRole is the game's own role. It is held by no player; the machine
// asks it for the action injected at the start of every day. One value is
// created per game and passed to the actions it issues.
type GodRole struct{}

func (GodRole) Name() string { return GodRoleName }
func (GodRole) Faction() Faction { return nil }
func (GodRole) MightHaveAction() bool { return false }
func (GodRole) NightAction(*State) Action { return nil }

// DayAction returns the village vote.
func (g GodRole) DayAction(*State) Action {
	return NewDayVotingAction(g)
}

// DayVotingRequest lists who can be voted out.
type DayVotingRequest struct {
	Candidates []string `json:"candidates"`
}

func (DayVotingRequest) Kind() string { return DayVoteKind }

// DayVotingResponse names the voted-out player. Empty means nobody.
type DayVotingResponse struct {
	VotedOut string `json:"voted_out,omitempty"`
}

func (DayVotingResponse) Kind() string { return DayVoteKind }

// DayVoteKind is the request and response kind of the day vote.
const DayVoteKind = "day_vote"

type dayVoting struct {
	god Role
}

// NewDayVotingAction builds the village vote issued by god.
func NewDayVotingAction(god Role) Action {
	return Typed[DayVotingRequest, DayVotingResponse](DayVoteKind, "", dayVoting{god: god})
}

func (d dayVoting) Request(s *State) (DayVotingRequest, error) {
	req := DayVotingRequest{Candidates: []string{}}
	for _, p := range s.LivingPlayers() {
		req.Candidates = append(req.Candidates, p.Name())
	}
	return req, nil
}

func (d dayVoting) Apply(s *State, resp DayVotingResponse) (*State, error) {
	if resp.VotedOut == "" {
		return s, nil
	}
	if err := s.CheckAlive(resp.VotedOut); err != nil {
		return nil, err
	}
	cause := tag.Provenance{Action: DayVoteKind, Actor: d.god.Name()}
	return s.TagPlayer(resp.VotedOut, tag.NewCaused(KilledByVillageID, cause))
}
