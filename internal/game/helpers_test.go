package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/werewolf/internal/rules"
	"github.com/roach88/werewolf/internal/tag"
)

const bittenID = "bitten"

type testFaction struct {
	name     string
	werewolf bool
}

func (f testFaction) Name() string { return f.name }
func (f testFaction) IsWerewolfFaction() bool { return f.werewolf }

func (f testFaction) HasWon(s *State) bool {
	switch f.name {
	case "village":
		for _, p := range s.Players().All() {
			if p.ActiveFaction().IsWerewolfFaction() && p.IsAlive() {
				return false
			}
		}
		return true
	case "pack":
		for _, p := range s.LivingPlayers() {
			if !p.ActiveFaction().IsWerewolfFaction() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

var (
	village = testFaction{name: "village"}
	pack    = testFaction{name: "pack", werewolf: true}
	neutral = testFaction{name: "neutral"}
)

type markRequest struct{}

func (markRequest) Kind() string { return "mark" }

type markResponse struct {
	Target string
}

func (markResponse) Kind() string { return "mark" }

type markAction struct {
	ref   RoleRef
	tagID string
}

func (a markAction) Request(*State) (markRequest, error) { return markRequest{}, nil }

func (a markAction) Apply(s *State, r markResponse) (*State, error) {
	if r.Target == "" {
		return s, nil
	}
	if err := s.CheckAlive(r.Target); err != nil {
		return nil, err
	}
	cause := tag.Provenance{Action: a.ref.Role, Actor: a.ref.Player}
	return s.TagPlayer(r.Target, tag.NewCaused(a.tagID, cause))
}

// markerRole tags one chosen player at night while its holder lives.
type markerRole struct {
	BaseRole
	tagID string
}

func newMarker(roleName string, faction Faction, player string) markerRole {
	return markerRole{BaseRole: NewBaseRole(roleName, faction, player), tagID: bittenID}
}

func (r markerRole) NightAction(s *State) Action {
	if !s.IsAlive(r.Location().Player) {
		return nil
	}
	return Typed[markRequest, markResponse](r.Name(), r.Location().Player, markAction{r.Location(), r.tagID})
}

// idleRole never acts.
type idleRole struct {
	BaseRole
}

func newIdle(faction Faction, player string) idleRole {
	return idleRole{NewBaseRole("idle", faction, player)}
}

func (idleRole) MightHaveAction() bool { return false }
func (idleRole) NightAction(*State) Action { return nil }

// silentGod issues nothing during the day.
type silentGod struct {
	GodRole
}

func (silentGod) DayAction(*State) Action { return nil }

func testRules(t *testing.T) *rules.RuleSet {
	t.Helper()
	rs, err := rules.New([]*rules.Rule{
		rules.MustRule(tag.FromIDs(bittenID), tag.NewSet(tag.Killed), true),
		rules.MustRule(tag.FromIDs(KilledByVillageID), tag.NewSet(tag.Killed), true),
	})
	require.NoError(t, err)
	return rs
}

var testOrder = map[string]int{"wolf": 0, "marker": 1}

// threePlayers seats two idle villagers and a wolf.
func threePlayers() []Player {
	return []Player{
		NewPlayer("V1", newIdle(village, "V1")),
		NewPlayer("V2", newIdle(village, "V2")),
		NewPlayer("W", newMarker("wolf", pack, "W")),
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) OnEvent(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}
