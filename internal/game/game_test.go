package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/werewolf/internal/rules"
	"github.com/roach88/werewolf/internal/tag"
)

func TestNew_GathersFirstNight(t *testing.T) {
	g, err := New(threePlayers(), testRules(t), testOrder)
	require.NoError(t, err)

	s := g.State()
	assert.Equal(t, Night, s.Phase())
	assert.Equal(t, 1, s.Round())
	assert.Equal(t, AwaitingInput, s.ActionState())
	require.NotNil(t, s.CurrentAction())
	assert.Equal(t, "wolf", s.CurrentAction().Name())
	assert.Equal(t, "W", s.CurrentAction().Actor())

	req, err := g.CurrentInputRequest()
	require.NoError(t, err)
	assert.Equal(t, "mark", req.Kind())
}

func TestNew_Validation(t *testing.T) {
	t.Run("no ruleset", func(t *testing.T) {
		_, err := New(threePlayers(), nil, testOrder)
		assert.True(t, HasCode(err, ErrCodeInvalidInput))
	})

	t.Run("no players", func(t *testing.T) {
		_, err := New(nil, testRules(t), testOrder)
		assert.True(t, HasCode(err, ErrCodeInvalidInput))
	})

	t.Run("duplicate player", func(t *testing.T) {
		players := append(threePlayers(), NewPlayer("V1", newIdle(village, "V1")))
		_, err := New(players, testRules(t), testOrder)
		assert.True(t, HasCode(err, ErrCodeDuplicatePlayer))
	})

	t.Run("acting role without order", func(t *testing.T) {
		_, err := New(threePlayers(), testRules(t), map[string]int{})
		require.Error(t, err)
		assert.True(t, HasCode(err, ErrCodeUnorderedRole))

		var ge *GameError
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, "wolf", ge.Details["role"])
	})
}

func TestAdvance_NightKillThenDayVote(t *testing.T) {
	obs := &recorder{}
	g, err := New(threePlayers(), testRules(t), testOrder, WithObserver(obs))
	require.NoError(t, err)

	require.NoError(t, g.Advance(markResponse{Target: "V1"}))

	s := g.State()
	assert.False(t, s.IsAlive("V1"))
	assert.Equal(t, 0, mustPlayer(t, s, "V1").Tags().Len(), "tags are cleared after the kill")
	assert.Equal(t, Day, s.Phase())
	assert.Equal(t, 1, s.Round())
	assert.Equal(t, AwaitingInput, s.ActionState())
	assert.Equal(t, DayVoteKind, s.CurrentAction().Name(), "day voting comes first")
	assert.Len(t, s.LivingPlayers(), 2)

	req, err := g.CurrentInputRequest()
	require.NoError(t, err)
	assert.Equal(t, DayVotingRequest{Candidates: []string{"V2", "W"}}, req)

	require.NoError(t, g.Advance(DayVotingResponse{VotedOut: "W"}))

	s = g.State()
	assert.True(t, g.Ended())
	assert.Equal(t, GameEnded, s.ActionState())
	require.NotNil(t, s.Winner())
	assert.Equal(t, "village", s.Winner().Name())

	assert.Equal(t, []EventKind{
		EventGameStarted,
		EventInputRequested,
		EventInputApplied,
		EventTagsCollapsed,
		EventPlayerKilled,
		EventPhaseAdvanced,
		EventInputRequested,
		EventInputApplied,
		EventTagsCollapsed,
		EventPlayerKilled,
		EventGameEnded,
	}, obs.kinds())

	collapsed := obs.events[3]
	assert.Equal(t, "V1", collapsed.Player)
	assert.Equal(t, "{'bitten'}", collapsed.Detail["before"])
	assert.Equal(t, "{'Killed'}", collapsed.Detail["after"])
	assert.Equal(t, "village", obs.events[len(obs.events)-1].Detail["winner"])
}

func TestAdvance_RoundIncrementsOnlyFromDayToNight(t *testing.T) {
	g, err := New(threePlayers(), testRules(t), testOrder)
	require.NoError(t, err)

	require.NoError(t, g.Advance(markResponse{}))
	assert.Equal(t, Day, g.State().Phase())
	assert.Equal(t, 1, g.State().Round())

	require.NoError(t, g.Advance(DayVotingResponse{}))
	assert.Equal(t, Night, g.State().Phase())
	assert.Equal(t, 2, g.State().Round())
	assert.Equal(t, "wolf", g.State().CurrentAction().Name())
}

func TestAdvance_PackWins(t *testing.T) {
	players := []Player{
		NewPlayer("V1", newIdle(village, "V1")),
		NewPlayer("W", newMarker("wolf", pack, "W")),
	}
	g, err := New(players, testRules(t), testOrder)
	require.NoError(t, err)

	require.NoError(t, g.Advance(markResponse{Target: "V1"}))
	require.True(t, g.Ended())
	assert.Equal(t, "pack", g.State().Winner().Name())
}

func TestAdvance_NoWinnerWhenEveryoneDies(t *testing.T) {
	players := []Player{
		NewPlayer("A", newMarker("marker", neutral, "A")),
		NewPlayer("B", newMarker("marker", neutral, "B")),
	}
	g, err := New(players, testRules(t), testOrder)
	require.NoError(t, err)

	assert.Equal(t, "A", g.State().CurrentAction().Actor())
	require.Len(t, g.State().PendingActions(), 1)

	require.NoError(t, g.Advance(markResponse{Target: "B"}))
	assert.Equal(t, AwaitingInput, g.State().ActionState(), "B still acts this night")
	assert.Equal(t, "B", g.State().CurrentAction().Actor())

	require.NoError(t, g.Advance(markResponse{Target: "A"}))
	assert.True(t, g.Ended())
	assert.Nil(t, g.State().Winner())
	assert.Empty(t, g.State().LivingPlayers())
}

func TestAdvance_RoleOrder(t *testing.T) {
	players := []Player{
		NewPlayer("M", newMarker("marker", neutral, "M")),
		NewPlayer("W", newMarker("wolf", pack, "W")),
	}
	g, err := New(players, testRules(t), testOrder)
	require.NoError(t, err)

	assert.Equal(t, "wolf", g.State().CurrentAction().Name(), "lower priority value acts first")
	pending := g.State().PendingActions()
	require.Len(t, pending, 1)
	assert.Equal(t, "marker", pending[0].Name())
}

func TestAdvance_InvalidState(t *testing.T) {
	players := []Player{
		NewPlayer("V1", newIdle(village, "V1")),
		NewPlayer("W", newMarker("wolf", pack, "W")),
	}
	g, err := New(players, testRules(t), testOrder)
	require.NoError(t, err)
	require.NoError(t, g.Advance(markResponse{Target: "V1"}))
	require.True(t, g.Ended())

	err = g.Advance(markResponse{})
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeInvalidState))

	var ge *GameError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, GameEnded, ge.State)
	assert.Equal(t, "AwaitingInput", ge.Details["expected"])

	_, err = g.CurrentInputRequest()
	assert.True(t, HasCode(err, ErrCodeInvalidState))
}

func TestAdvance_FailureKeepsState(t *testing.T) {
	tests := []struct {
		name string
		resp InputResponse
		code ErrorCode
	}{
		{"wrong response kind", DayVotingResponse{VotedOut: "V1"}, ErrCodeIncompatibleInput},
		{"nil response", nil, ErrCodeIncompatibleInput},
		{"unknown target", markResponse{Target: "nobody"}, ErrCodeUnknownPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recorder{}
			g, err := New(threePlayers(), testRules(t), testOrder, WithObserver(obs))
			require.NoError(t, err)
			before := g.State()
			emitted := len(obs.events)

			err = g.Advance(tt.resp)
			require.Error(t, err)
			assert.True(t, HasCode(err, tt.code), "got %v", err)
			assert.Same(t, before, g.State())
			assert.Len(t, obs.events, emitted, "failed advance emits nothing")
		})
	}
}

func TestAdvance_DeadTargetRejected(t *testing.T) {
	g, err := New(threePlayers(), testRules(t), testOrder)
	require.NoError(t, err)
	require.NoError(t, g.Advance(markResponse{Target: "V1"}))

	err = g.Advance(DayVotingResponse{VotedOut: "V1"})
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodePlayerDead))
	assert.Equal(t, Day, g.State().Phase())
}

func TestAdvance_CollapseErrorKeepsState(t *testing.T) {
	rs, err := rules.New([]*rules.Rule{
		rules.MustRule(tag.FromIDs(KilledByVillageID), tag.NewSet(tag.Killed), true),
	})
	require.NoError(t, err)

	g, err := New(threePlayers(), rs, testOrder)
	require.NoError(t, err)
	before := g.State()

	err = g.Advance(markResponse{Target: "V1"})
	require.Error(t, err)
	assert.True(t, rules.HasCode(err, rules.ErrCodeUnhandledTag))
	assert.Contains(t, err.Error(), "collapse tags of V1")
	assert.Same(t, before, g.State())
}

func TestGathering_EmptyPhaseIsSkipped(t *testing.T) {
	players := []Player{
		NewPlayer("V1", newIdle(village, "V1")),
		NewPlayer("Wolf", newIdle(pack, "Wolf")),
		NewPlayer("V2", newIdle(village, "V2")),
	}
	obs := &recorder{}
	g, err := New(players, testRules(t), nil, WithObserver(obs))
	require.NoError(t, err)

	s := g.State()
	assert.Equal(t, Day, s.Phase())
	assert.Equal(t, 1, s.Round())
	assert.Equal(t, DayVoteKind, s.CurrentAction().Name())
	assert.Contains(t, obs.kinds(), EventPhaseSkipped)
}

func TestGathering_StallsAfterTwoEmptyPhases(t *testing.T) {
	players := []Player{
		NewPlayer("V1", newIdle(village, "V1")),
		NewPlayer("Wolf", newIdle(pack, "Wolf")),
		NewPlayer("V2", newIdle(village, "V2")),
	}
	_, err := New(players, testRules(t), nil, WithGodRole(silentGod{}))
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeStalled))
}

func TestGathering_EmptyPhaseCanEndGame(t *testing.T) {
	players := []Player{
		NewPlayer("V1", newIdle(village, "V1")),
		NewPlayer("V2", newIdle(village, "V2")),
	}
	g, err := New(players, testRules(t), nil)
	require.NoError(t, err)
	assert.True(t, g.Ended())
	assert.Equal(t, "village", g.State().Winner().Name())
}

func TestAdvance_TagsCarryProvenance(t *testing.T) {
	obs := &recorder{}
	players := []Player{
		NewPlayer("A", newMarker("marker", neutral, "A")),
		NewPlayer("B", newIdle(village, "B")),
		NewPlayer("C", newIdle(village, "C")),
	}
	g, err := New(players, testRules(t), testOrder, WithObserver(obs))
	require.NoError(t, err)

	next, err := g.State().CurrentAction().Transform(g.State(), markResponse{Target: "B"})
	require.NoError(t, err)

	b := mustPlayer(t, next, "B")
	bitten, ok := b.Tags().TryGet(tag.New(bittenID))
	require.True(t, ok)
	cause, ok := bitten.Provenance()
	require.True(t, ok)
	assert.Equal(t, tag.Provenance{Action: "marker", Actor: "A"}, cause)
	assert.Equal(t, 0, mustPlayer(t, g.State(), "B").Tags().Len(), "transform does not touch the game's snapshot")
}

func mustPlayer(t *testing.T, s *State, name string) Player {
	t.Helper()
	p, err := s.Player(name)
	require.NoError(t, err)
	return p
}
