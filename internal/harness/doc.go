// Package harness runs scripted games against the real game machine and
// journal, and checks how they end.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: village_wins
//	description: "What this scenario validates"
//	rules: ../rules/werewolf.cue   # optional; defaults to the sample rules
//	players:
//	  - name: Wanda
//	    role: witch
//	    params: { heal: 1, kill: 0 }
//	steps:
//	  - kind: werewolf
//	    expect_request: werewolf
//	    target: Vera
//	  - kind: witch
//	    heal: Vera
//	    expect_error: INVALID_INPUT
//	expect:
//	  phase: Day
//	  alive: [Vera]
//	  winner: village
//	assertions:
//	  - type: trace_count
//	    kind: player_killed
//	    count: 1
//
// Every step answers the pending input request. Keys other than kind,
// expect_request and expect_error are the response fields.
//
// # Assertion Types
//
//   - trace_contains: an event of the kind (and player, detail subset) exists
//   - trace_order: the kinds appear in this order, other events between them
//   - trace_count: exactly count events of the kind (and player) exist
//
// # Golden Traces
//
// RunWithGolden renders the journaled trace one event per line (see
// FormatEvent) and compares it with testdata/golden/{name}.golden.
package harness
