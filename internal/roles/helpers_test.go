package roles_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/werewolf/internal/compiler"
	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/roles"
)

func defaultConfig(t *testing.T) *compiler.Config {
	t.Helper()
	cfg, err := compiler.CompileString(roles.DefaultRules, roles.DefaultRulesFile)
	require.NoError(t, err)
	return cfg
}

// seat builds a player from a catalog role with default parameters.
func seat(t *testing.T, name, role string) game.Player {
	t.Helper()
	bp, err := roles.NewBlueprint(role, nil)
	require.NoError(t, err)
	return game.FromBlueprint(name, bp)
}

func newGame(t *testing.T, players ...game.Player) *game.Game {
	t.Helper()
	cfg := defaultConfig(t)
	g, err := game.New(players, cfg.RuleSet, cfg.RoleOrder)
	require.NoError(t, err)
	return g
}

// request returns the pending input request as R.
func request[R game.InputRequest](t *testing.T, g *game.Game) R {
	t.Helper()
	req, err := g.CurrentInputRequest()
	require.NoError(t, err)
	typed, ok := req.(R)
	require.True(t, ok, "pending request is %T", req)
	return typed
}

func advance(t *testing.T, g *game.Game, resp game.InputResponse) {
	t.Helper()
	require.NoError(t, g.Advance(resp))
}

func player(t *testing.T, g *game.Game, name string) game.Player {
	t.Helper()
	p, err := g.State().Player(name)
	require.NoError(t, err)
	return p
}

func witch(t *testing.T, g *game.Game, name string) roles.Witch {
	t.Helper()
	w, err := game.RoleAs[roles.Witch](g.State(), game.RoleRef{Player: name, Role: roles.WitchName})
	require.NoError(t, err)
	return w
}
