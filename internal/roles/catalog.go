package roles

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/werewolf/internal/game"
)

// DefaultRules is the CUE ruleset for the sample catalog.
//
//go:embed rules.cue
var DefaultRules string

// DefaultRulesFile is the filename DefaultRules is compiled under.
const DefaultRulesFile = "roles/rules.cue"

type blueprintFactory struct {
	params map[string]int // accepted parameters and their defaults
	build  func(player string, params map[string]int) game.Role
}

var catalog = map[string]blueprintFactory{
	VillagerName: {
		build: func(player string, _ map[string]int) game.Role { return NewVillager(player) },
	},
	WerewolfName: {
		build: func(player string, _ map[string]int) game.Role { return NewWerewolf(player) },
	},
	WitchName: {
		params: map[string]int{"heal": 1, "kill": 1},
		build: func(player string, p map[string]int) game.Role {
			return NewWitch(player, p["heal"], p["kill"])
		},
	},
	GuardianName: {
		build: func(player string, _ map[string]int) game.Role { return NewGuardian(player) },
	},
}

// Names returns the catalog's role names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(catalog))
}

// NewBlueprint returns the blueprint for role. params overrides the role's
// defaults (only the witch takes any: heal and kill spell counts).
func NewBlueprint(role string, params map[string]int) (game.Blueprint, error) {
	f, ok := catalog[role]
	if !ok {
		return nil, &game.GameError{
			Code:    game.ErrCodeUnknownRole,
			Message: fmt.Sprintf("unknown role %q (known: %s)", role, strings.Join(Names(), ", ")),
		}
	}

	resolved := maps.Clone(f.params)
	if resolved == nil {
		resolved = map[string]int{}
	}
	for k, v := range params {
		if _, ok := f.params[k]; !ok {
			return nil, &game.GameError{
				Code:    game.ErrCodeInvalidInput,
				Message: fmt.Sprintf("role %q has no parameter %q", role, k),
			}
		}
		if v < 0 {
			return nil, &game.GameError{
				Code:    game.ErrCodeInvalidInput,
				Message: fmt.Sprintf("role %q parameter %q must not be negative", role, k),
			}
		}
		resolved[k] = v
	}

	return game.BlueprintFunc{
		Name: role,
		Func: func(player string) game.Role { return f.build(player, resolved) },
	}, nil
}

// DefaultRoleOrder is the acting order of the catalog's roles, matching
// the role_order of DefaultRules.
func DefaultRoleOrder() map[string]int {
	return map[string]int{GuardianName: 0, WerewolfName: 1, WitchName: 2}
}
