// Package store is a SQLite-backed journal of game transitions.
//
// The journal is diagnostic: it records what happened so finished games can
// be traced, it is never used to resume a game.
//
//   - games: one row per recorded game (ID, scenario name, player count)
//   - game_events: one row per game.Event, stamped with a logical seq
//
// # Ordering
//
// Events are ordered by seq from a monotonic Clock, never by wall time.
// UNIQUE(game_id, seq) rejects a second event at the same position.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Events must reference a recorded game
package store
