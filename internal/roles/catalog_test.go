package roles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/roles"
)

func TestDefaultRules(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, roles.DefaultRoleOrder(), cfg.RoleOrder)
	assert.Equal(t, "werewolf_kill", cfg.RuleNames[0])

	report, err := cfg.RuleSet.Audit()
	require.NoError(t, err)
	assert.Equal(t, 31, report.Checked)
	assert.Empty(t, report.Failures)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"guardian", "villager", "werewolf", "witch"}, roles.Names())
}

func TestNewBlueprint(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		bp, err := roles.NewBlueprint(roles.WitchName, nil)
		require.NoError(t, err)
		assert.Equal(t, roles.WitchName, bp.RoleName())

		w, ok := bp.Build("Wanda").(roles.Witch)
		require.True(t, ok)
		assert.Equal(t, 1, w.HealSpells())
		assert.Equal(t, 1, w.KillSpells())
		assert.Equal(t, game.RoleRef{Player: "Wanda", Role: roles.WitchName}, w.Location())
	})

	t.Run("parameters override defaults", func(t *testing.T) {
		bp, err := roles.NewBlueprint(roles.WitchName, map[string]int{"heal": 3})
		require.NoError(t, err)

		w := bp.Build("Wanda").(roles.Witch)
		assert.Equal(t, 3, w.HealSpells())
		assert.Equal(t, 1, w.KillSpells())
	})

	t.Run("blueprints do not share parameters", func(t *testing.T) {
		_, err := roles.NewBlueprint(roles.WitchName, map[string]int{"kill": 0})
		require.NoError(t, err)

		bp, err := roles.NewBlueprint(roles.WitchName, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, bp.Build("Wanda").(roles.Witch).KillSpells())
	})

	t.Run("factions", func(t *testing.T) {
		p := seat(t, "Wolf", roles.WerewolfName)
		require.NotNil(t, p.ActiveFaction())
		assert.Equal(t, roles.WerewolfFaction, p.ActiveFaction().Name())
		assert.True(t, p.ActiveFaction().IsWerewolfFaction())

		v := seat(t, "Vera", roles.VillagerName)
		assert.Equal(t, roles.VillageFaction, v.ActiveFaction().Name())
		assert.False(t, v.ActiveFaction().IsWerewolfFaction())
		assert.False(t, v.Roles()[0].MightHaveAction())
	})

	errorTests := []struct {
		name   string
		role   string
		params map[string]int
		code   game.ErrorCode
	}{
		{"unknown role", "seer", nil, game.ErrCodeUnknownRole},
		{"unknown parameter", roles.WerewolfName, map[string]int{"heal": 1}, game.ErrCodeInvalidInput},
		{"negative parameter", roles.WitchName, map[string]int{"kill": -1}, game.ErrCodeInvalidInput},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roles.NewBlueprint(tt.role, tt.params)
			require.Error(t, err)
			assert.True(t, game.HasCode(err, tt.code))
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		kind   string
		fields map[string]string
		want   game.InputResponse
	}{
		{roles.WerewolfName, map[string]string{"target": "Vera"}, roles.WerewolfResponse{Target: "Vera"}},
		{roles.WitchName, map[string]string{"heal": "Vera"}, roles.WitchResponse{Heal: "Vera"}},
		{roles.WitchName, nil, roles.WitchResponse{}},
		{roles.GuardianName, map[string]string{"target": "Gus"}, roles.GuardianResponse{Target: "Gus"}},
		{game.DayVoteKind, map[string]string{"voted_out": "Wolf"}, game.DayVotingResponse{VotedOut: "Wolf"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := roles.DecodeResponse(tt.kind, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, got.Kind())
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		_, err := roles.DecodeResponse("seer", nil)
		assert.ErrorContains(t, err, `unknown response kind "seer"`)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := roles.DecodeResponse(roles.WerewolfName, map[string]string{"victim": "Vera"})
		assert.ErrorContains(t, err, `has no field "victim"`)
	})
}
