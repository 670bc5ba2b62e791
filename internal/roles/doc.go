// Package roles is a small sample catalog of werewolf roles and factions
// used by the CLI and by tests: villager, werewolf, witch and guardian,
// together with the CUE ruleset that resolves their tags.
package roles
