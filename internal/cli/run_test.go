package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runVillageWins journals village_wins into a fresh database and returns
// the database path and the generated game ID.
func runVillageWins(t *testing.T) (string, string) {
	t.Helper()
	db := filepath.Join(t.TempDir(), "games.db")

	out, err := execute(t, "run", "--db", db, filepath.Join(scenariosDir, "village_wins.yaml"))
	require.NoError(t, err, out)

	header, _, ok := strings.Cut(out, "\n")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(header, "game "), header)
	require.True(t, strings.HasSuffix(header, " (village_wins)"), header)
	id := strings.TrimSuffix(strings.TrimPrefix(header, "game "), " (village_wins)")
	require.NotEmpty(t, id)

	assert.Contains(t, out, "13 Day 1 GameEnded game_ended winner=\"village\"\n")
	assert.True(t, strings.HasSuffix(out, "✓ scenario passed\n"))
	return db, id
}

func TestRun_JournalsGame(t *testing.T) {
	db, id := runVillageWins(t)

	out, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, id+"  village_wins  3 players  13 events  game_ended\n", out)
}

func TestRun_FailingScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stuck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: stuck
description: "Expects a winner before anyone acts"
players:
  - name: Vera
    role: villager
  - name: Wolf
    role: werewolf
expect:
  winner: werewolves
`), 0644))

	out, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ scenario failed\n")
	assert.Contains(t, out, "expect.winner: expected werewolves, got game still running")
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "run")
	require.Error(t, err)
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "run", "--format", "json", filepath.Join(scenariosDir, "guardian_no_repeat.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Pass)
	assert.Equal(t, "guardian-game", resp.Data.GameID)
	assert.Len(t, resp.Data.Trace, 23)
}

func TestTrace_Game(t *testing.T) {
	db, id := runVillageWins(t)

	out, err := execute(t, "trace", "--db", db, id)
	require.NoError(t, err)

	golden, err := os.ReadFile(filepath.Join(goldenDir, "village_wins.golden"))
	require.NoError(t, err)
	assert.Equal(t, "game "+id+" (village_wins, 3 players)\n"+string(golden), out)
}

func TestTrace_Kind(t *testing.T) {
	db, id := runVillageWins(t)

	out, err := execute(t, "trace", "--db", db, "--kind", "player_killed", id)
	require.NoError(t, err)
	assert.Equal(t, ""+
		"game "+id+" (village_wins, 3 players)\n"+
		"7 Night 1 AwaitingWinConditionEvaluation player_killed Vera\n"+
		"12 Day 1 AwaitingWinConditionEvaluation player_killed Wolf\n", out)
}

func TestTrace_Errors(t *testing.T) {
	t.Setenv("WEREWOLF_DB", "")

	_, err := execute(t, "trace")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err := execute(t, "trace", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "database not found")

	db, _ := runVillageWins(t)
	out, err = execute(t, "trace", "--db", db, "no-such-game")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [NOT_FOUND]: game not found: no-such-game")
}
