package roles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/roles"
)

func TestGame_WerewolfKillsThenVillageVotes(t *testing.T) {
	g := newGame(t,
		seat(t, "Vera", roles.VillagerName),
		seat(t, "Wanda", roles.WitchName),
		seat(t, "Wolf", roles.WerewolfName),
	)

	wreq := request[roles.WerewolfRequest](t, g)
	assert.Equal(t, []string{"Wolf"}, wreq.Pack)
	assert.Equal(t, []string{"Vera", "Wanda"}, wreq.Candidates)
	advance(t, g, roles.WerewolfResponse{Target: "Vera"})

	xreq := request[roles.WitchRequest](t, g)
	assert.Equal(t, roles.WitchRequest{WerewolfTarget: "Vera", HealSpells: 1, KillSpells: 1}, xreq)
	advance(t, g, roles.WitchResponse{})

	s := g.State()
	assert.Equal(t, game.Day, s.Phase())
	assert.Equal(t, 1, s.Round())
	assert.False(t, player(t, g, "Vera").IsAlive())
	assert.True(t, player(t, g, "Vera").Tags().IsFullyCollapsed())
	assert.Equal(t, 0, player(t, g, "Vera").Tags().Len())
	assert.True(t, player(t, g, "Wanda").IsAlive())
	assert.True(t, player(t, g, "Wolf").IsAlive())

	vote := request[game.DayVotingRequest](t, g)
	assert.Equal(t, []string{"Wanda", "Wolf"}, vote.Candidates)
	advance(t, g, game.DayVotingResponse{VotedOut: "Wolf"})

	require.True(t, g.Ended())
	require.NotNil(t, g.State().Winner())
	assert.Equal(t, roles.VillageFaction, g.State().Winner().Name())
}

func TestGame_WitchHealSavesTarget(t *testing.T) {
	g := newGame(t,
		seat(t, "Vera", roles.VillagerName),
		seat(t, "Wanda", roles.WitchName),
		seat(t, "Wolf", roles.WerewolfName),
	)

	advance(t, g, roles.WerewolfResponse{Target: "Vera"})
	advance(t, g, roles.WitchResponse{Heal: "Vera"})

	assert.Equal(t, game.Day, g.State().Phase())
	assert.True(t, player(t, g, "Vera").IsAlive())
	assert.Equal(t, 0, player(t, g, "Vera").Tags().Len())
	assert.Equal(t, 0, witch(t, g, "Wanda").HealSpells())
	assert.Equal(t, 1, witch(t, g, "Wanda").KillSpells())

	advance(t, g, game.DayVotingResponse{})
	assert.Equal(t, game.Night, g.State().Phase())
	assert.Equal(t, 2, g.State().Round())

	advance(t, g, roles.WerewolfResponse{Target: "Vera"})
	xreq := request[roles.WitchRequest](t, g)
	assert.Equal(t, 0, xreq.HealSpells)

	before := g.State()
	err := g.Advance(roles.WitchResponse{Heal: "Vera"})
	require.Error(t, err)
	assert.True(t, game.HasCode(err, game.ErrCodeInvalidInput))
	assert.Same(t, before, g.State())

	advance(t, g, roles.WitchResponse{Kill: "Wolf"})
	assert.False(t, player(t, g, "Vera").IsAlive())
	assert.False(t, player(t, g, "Wolf").IsAlive())
	require.True(t, g.Ended())
	assert.Equal(t, roles.VillageFaction, g.State().Winner().Name())
}

func TestGame_PoisonBeatsHeal(t *testing.T) {
	g := newGame(t,
		seat(t, "Vera", roles.VillagerName),
		seat(t, "Vic", roles.VillagerName),
		seat(t, "Wanda", roles.WitchName),
		seat(t, "Wolf", roles.WerewolfName),
	)

	advance(t, g, roles.WerewolfResponse{Target: "Vera"})
	advance(t, g, roles.WitchResponse{Heal: "Vera", Kill: "Vera"})

	assert.False(t, player(t, g, "Vera").IsAlive())
	assert.Equal(t, 0, witch(t, g, "Wanda").HealSpells())
	assert.Equal(t, 0, witch(t, g, "Wanda").KillSpells())
	assert.False(t, g.Ended())
}

func TestGame_WerewolvesWin(t *testing.T) {
	g := newGame(t,
		seat(t, "Vera", roles.VillagerName),
		seat(t, "Wolf", roles.WerewolfName),
	)

	advance(t, g, roles.WerewolfResponse{Target: "Vera"})

	require.True(t, g.Ended())
	assert.Equal(t, roles.WerewolfFaction, g.State().Winner().Name())
	assert.Equal(t, game.Night, g.State().Phase())
}

func TestGame_GuardianCannotRepeat(t *testing.T) {
	g := newGame(t,
		seat(t, "Gus", roles.GuardianName),
		seat(t, "Vera", roles.VillagerName),
		seat(t, "Wolf", roles.WerewolfName),
	)

	greq := request[roles.GuardianRequest](t, g)
	assert.Empty(t, greq.LastProtected)
	assert.Equal(t, []string{"Gus", "Vera", "Wolf"}, greq.Candidates)
	advance(t, g, roles.GuardianResponse{Target: "Vera"})
	advance(t, g, roles.WerewolfResponse{Target: "Vera"})

	assert.True(t, player(t, g, "Vera").IsAlive(), "guardian blocks the werewolves")
	advance(t, g, game.DayVotingResponse{})

	greq = request[roles.GuardianRequest](t, g)
	assert.Equal(t, "Vera", greq.LastProtected)
	assert.Equal(t, []string{"Gus", "Wolf"}, greq.Candidates)

	before := g.State()
	err := g.Advance(roles.GuardianResponse{Target: "Vera"})
	require.Error(t, err)
	assert.True(t, game.HasCode(err, game.ErrCodeInvalidInput))
	assert.Same(t, before, g.State())

	advance(t, g, roles.GuardianResponse{Target: "Gus"})
	advance(t, g, roles.WerewolfResponse{Target: "Vera"})
	assert.False(t, player(t, g, "Vera").IsAlive())

	g2, err := game.RoleAs[roles.Guardian](g.State(), game.RoleRef{Player: "Gus", Role: roles.GuardianName})
	require.NoError(t, err)
	assert.Equal(t, "Gus", g2.LastProtected())

	advance(t, g, game.DayVotingResponse{VotedOut: "Wolf"})
	require.True(t, g.Ended())
	assert.Equal(t, roles.VillageFaction, g.State().Winner().Name())
	assert.Equal(t, 2, g.State().Round())
}

func TestGame_WerewolfPackActsOnce(t *testing.T) {
	g := newGame(t,
		seat(t, "W1", roles.WerewolfName),
		seat(t, "Vera", roles.VillagerName),
		seat(t, "W2", roles.WerewolfName),
		seat(t, "Vic", roles.VillagerName),
		seat(t, "Val", roles.VillagerName),
	)

	wreq := request[roles.WerewolfRequest](t, g)
	assert.Equal(t, []string{"W1", "W2"}, wreq.Pack)
	assert.Equal(t, []string{"Vera", "Vic", "Val"}, wreq.Candidates)
	assert.Empty(t, g.State().PendingActions())

	advance(t, g, roles.WerewolfResponse{Target: "Vera"})
	advance(t, g, game.DayVotingResponse{VotedOut: "W1"})

	wreq = request[roles.WerewolfRequest](t, g)
	assert.Equal(t, []string{"W2"}, wreq.Pack, "the next living werewolf leads the pack")
	assert.Equal(t, "W2", g.State().CurrentAction().Actor())
}

func TestGame_WerewolfTargetMustBeAlive(t *testing.T) {
	g := newGame(t,
		seat(t, "Vera", roles.VillagerName),
		seat(t, "Vic", roles.VillagerName),
		seat(t, "Val", roles.VillagerName),
		seat(t, "Wolf", roles.WerewolfName),
	)
	advance(t, g, roles.WerewolfResponse{Target: "Vera"})
	advance(t, g, game.DayVotingResponse{})

	err := g.Advance(roles.WerewolfResponse{Target: "Vera"})
	require.Error(t, err)
	assert.True(t, game.HasCode(err, game.ErrCodePlayerDead))

	err = g.Advance(roles.WitchResponse{})
	require.Error(t, err)
	assert.True(t, game.HasCode(err, game.ErrCodeIncompatibleInput))

	advance(t, g, roles.WerewolfResponse{})
	assert.Equal(t, game.Day, g.State().Phase())
	assert.Equal(t, 2, g.State().Round())
}

func TestGame_CollapseEvents(t *testing.T) {
	cfg := defaultConfig(t)

	var collapsed []game.Event
	g, err := game.New(
		[]game.Player{
			seat(t, "Vera", roles.VillagerName),
			seat(t, "Vic", roles.VillagerName),
			seat(t, "Wolf", roles.WerewolfName),
		},
		cfg.RuleSet,
		cfg.RoleOrder,
		game.WithObserver(game.ObserverFunc(func(e game.Event) {
			if e.Kind == game.EventTagsCollapsed {
				collapsed = append(collapsed, e)
			}
		})),
	)
	require.NoError(t, err)

	advance(t, g, roles.WerewolfResponse{Target: "Vic"})
	require.Len(t, collapsed, 1)
	assert.Equal(t, "Vic", collapsed[0].Player)
	assert.Equal(t, "{'killed_by_werewolves'}", collapsed[0].Detail["before"])
	assert.Equal(t, "{'Killed'}", collapsed[0].Detail["after"])
}
