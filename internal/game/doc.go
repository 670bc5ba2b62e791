// Package game implements the phase and action state machine of a social
// deduction game.
//
// A Game owns a sequence of immutable State snapshots. Roles held by
// players contribute Actions each phase; actions tag players; at the end
// of the phase every player's tags are collapsed by a rules.RuleSet and the
// resulting master tags are applied (a lone Killed kills the player). Win
// conditions are checked after every phase.
//
// The host interacts only through Game.CurrentInputRequest and
// Game.Advance and reads Game.State afterwards.
package game
