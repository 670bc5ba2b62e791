package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/werewolf/internal/compiler"
	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/roles"
)

func TestRecorder_JournalsGame(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	cfg, err := compiler.CompileString(roles.DefaultRules, roles.DefaultRulesFile)
	require.NoError(t, err)

	id := NewFixedGenerator("game-1").Generate()
	rec, err := NewRecorder(ctx, s, Game{ID: id, Name: "recorded", Players: 2})
	require.NoError(t, err)

	players := []game.Player{
		game.NewPlayer("Vera", roles.NewVillager("Vera")),
		game.NewPlayer("Wolf", roles.NewWerewolf("Wolf")),
	}
	g, err := game.New(players, cfg.RuleSet, cfg.RoleOrder, game.WithObserver(rec))
	require.NoError(t, err)
	require.NoError(t, g.Advance(roles.WerewolfResponse{Target: "Vera"}))
	require.True(t, g.Ended())
	require.NoError(t, rec.Err())

	events, err := s.ReadEvents(ctx, "game-1")
	require.NoError(t, err)
	require.Equal(t, rec.Written(), int64(len(events)))

	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
		assert.Equal(t, int64(i+1), e.Seq)
	}
	assert.Equal(t, []string{
		"game_started",
		"input_requested",
		"input_applied",
		"tags_collapsed",
		"player_killed",
		"game_ended",
	}, kinds)
	assert.Equal(t, map[string]string{"winner": roles.WerewolfFaction}, events[len(events)-1].Detail)

	games, err := s.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "game_ended", games[0].LastKind)
}

func TestRecorder_KeepsFirstError(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	rec, err := NewRecorder(ctx, s, Game{ID: "g1", Name: "broken", Players: 1})
	require.NoError(t, err)
	assert.Equal(t, "g1", rec.GameID())

	rec.OnEvent(game.Event{Kind: game.EventGameStarted})
	require.NoError(t, rec.Err())
	assert.Equal(t, int64(1), rec.Written())

	require.NoError(t, s.Close())
	rec.OnEvent(game.Event{Kind: game.EventInputRequested})
	first := rec.Err()
	require.Error(t, first)

	rec.OnEvent(game.Event{Kind: game.EventGameEnded})
	assert.Equal(t, first, rec.Err())
	assert.Equal(t, int64(1), rec.Written())
}
