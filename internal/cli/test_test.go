package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	scenariosDir = "../harness/testdata/scenarios"
	goldenDir    = "../harness/testdata/golden"
)

func TestTest_AllScenariosPass(t *testing.T) {
	out, err := execute(t, "test", scenariosDir, "--golden", goldenDir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ guardian_no_repeat\n")
	assert.Contains(t, out, "✓ poison_beats_heal\n")
	assert.Contains(t, out, "✓ village_wins\n")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total\n")
	assert.Contains(t, out, "✓ All scenarios passed\n")
}

func TestTest_Filter(t *testing.T) {
	out, err := execute(t, "test", scenariosDir, "--golden", goldenDir, "--filter", "guardian_*")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total\n")
	assert.NotContains(t, out, "village_wins")

	out, err = execute(t, "test", scenariosDir, "--filter", "nothing_*")
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTest_UpdateWritesGoldens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "golden")

	_, err := execute(t, "test", scenariosDir, "--golden", dir, "--update")
	require.NoError(t, err)

	for _, name := range []string{"village_wins", "guardian_no_repeat"} {
		got, err := os.ReadFile(filepath.Join(dir, name+".golden"))
		require.NoError(t, err)
		want, err := os.ReadFile(filepath.Join(goldenDir, name+".golden"))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), name)
	}
	assert.FileExists(t, filepath.Join(dir, "poison_beats_heal.golden"))

	// The freshly written goldens match on the next run.
	out, err := execute(t, "test", scenariosDir, "--golden", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "3 passed, 0 failed, 3 total")
}

func TestTest_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "village_wins.golden"), []byte("1 Night 1 GameEnded game_ended\n"), 0644))

	out, err := execute(t, "test", scenariosDir, "--golden", dir, "--filter", "village_wins")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ village_wins\n")
	assert.Contains(t, out, "trace does not match golden file (run with --update to regenerate)")
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong_winner.yaml"), []byte(`
name: wrong_winner
description: "Expects the werewolves to win a game the village wins"
players:
  - name: Vera
    role: villager
  - name: Wolf
    role: werewolf
steps:
  - kind: werewolf
    target: Vera
expect:
  winner: village
`), 0644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_winner\n")
	assert.Contains(t, out, "expect.winner: expected village, got werewolves")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total\n")
}

func TestTest_MissingDirectory(t *testing.T) {
	out, err := execute(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenarios directory not found")
}

func TestTest_JSON(t *testing.T) {
	out, err := execute(t, "test", scenariosDir, "--golden", goldenDir, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 3, resp.Data.Passed)
	require.Len(t, resp.Data.Scenarios, 3)
	assert.Equal(t, "guardian_no_repeat", resp.Data.Scenarios[0].Name)
	assert.Equal(t, "guardian-game", resp.Data.Scenarios[0].GameID)
}
