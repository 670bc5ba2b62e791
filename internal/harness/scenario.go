package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted game: who plays, what every input is, and what
// the game must look like afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is a CUE file or package directory, relative to the scenario
	// file. Empty uses the embedded sample ruleset.
	Rules string `yaml:"rules,omitempty"`

	// GameID fixes the journal ID. Defaults to "game-" + Name.
	GameID string `yaml:"game_id,omitempty"`

	// Players are seated in order.
	Players []PlayerSpec `yaml:"players"`

	// Steps answer the pending input requests in order.
	Steps []Step `yaml:"steps"`

	// Expect validates the final game state.
	Expect *Expectation `yaml:"expect,omitempty"`

	// Assertions validate the journaled trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// PlayerSpec seats one player with a catalog role.
type PlayerSpec struct {
	Name   string         `yaml:"name"`
	Role   string         `yaml:"role"`
	Params map[string]int `yaml:"params,omitempty"`
}

// Step is one input response.
//
//	- kind: witch
//	  heal: Vera
//	  expect_request: witch
type Step struct {
	// Kind selects the response type (werewolf, witch, guardian, day_vote).
	Kind string `yaml:"kind"`

	// ExpectRequest, if set, is the kind the pending request must have.
	ExpectRequest string `yaml:"expect_request,omitempty"`

	// ExpectError, if set, is the error code Advance must fail with. The
	// game state is unchanged afterwards, so the next step answers the
	// same request.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Fields are the remaining keys, passed to the response decoder.
	Fields map[string]string `yaml:",inline"`
}

// Expectation describes the final state. Zero values are not checked.
type Expectation struct {
	Phase       string `yaml:"phase,omitempty"`
	Round       int    `yaml:"round,omitempty"`
	ActionState string `yaml:"action_state,omitempty"`

	// Pending is the kind of the request left unanswered.
	Pending string `yaml:"pending,omitempty"`

	Alive []string `yaml:"alive,omitempty"`
	Dead  []string `yaml:"dead,omitempty"`

	// Winner is a faction name, or "none" for a game everybody lost.
	Winner string `yaml:"winner,omitempty"`

	// Tags maps player names to the exact tag identifiers they hold.
	Tags map[string][]string `yaml:"tags,omitempty"`
}

// WinnerNone expects a finished game without a winner.
const WinnerNone = "none"

// Assertion validates the journaled trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event of Kind (and Player, Detail subset) exists
	// - "trace_order": the Kinds appear in this order
	// - "trace_count": exactly Count events of Kind (and Player) exist
	Type string `yaml:"type"`

	Kind   string            `yaml:"kind,omitempty"`
	Player string            `yaml:"player,omitempty"`
	Detail map[string]string `yaml:"detail,omitempty"`
	Kinds  []string          `yaml:"kinds,omitempty"`
	Count  int               `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Rules path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}
	if scenario.Rules != "" {
		if _, err := os.Stat(scenario.Rules); err != nil {
			return nil, fmt.Errorf("%s: rules not found: %w", path, err)
		}
	}
	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Players) == 0 {
		return fmt.Errorf("players list is required and must be non-empty")
	}
	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	for i, p := range s.Players {
		if p.Name == "" {
			return fmt.Errorf("players[%d]: name is required", i)
		}
		if p.Role == "" {
			return fmt.Errorf("players[%d]: role is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.Kind == "" {
			return fmt.Errorf("steps[%d]: kind is required", i)
		}
	}

	if s.Expect != nil && s.Expect.Round < 0 {
		return fmt.Errorf("expect: round must be positive")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
