package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/werewolf/internal/compiler"
	"github.com/roach88/werewolf/internal/game"
	"github.com/roach88/werewolf/internal/roles"
	"github.com/roach88/werewolf/internal/rules"
	"github.com/roach88/werewolf/internal/store"
)

// Harness runs one scenario against a real game and journal.
type Harness struct {
	store  *store.Store
	ids    store.IDGenerator
	logger *slog.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithStore journals into st instead of a fresh in-memory database. The
// caller keeps ownership of st.
func WithStore(st *store.Store) Option {
	return func(h *Harness) {
		h.store = st
	}
}

// WithIDGenerator names games the scenario gives no game_id.
//
// Default: "game-" followed by the scenario name.
func WithIDGenerator(ids store.IDGenerator) Option {
	return func(h *Harness) {
		h.ids = ids
	}
}

// WithLogger sets the logger for step-level messages.
//
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Compile the scenario's rules (or the embedded sample rules)
//  2. Seat the players from catalog blueprints
//  3. Answer every step, checking expected request kinds and error codes
//  4. Check the final state and the journaled trace
//
// The returned error is reserved for scenarios that cannot run at all
// (bad rules, unknown roles, undecodable steps, journal failures). A
// scenario whose game behaves differently than expected returns a failing
// Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(h)
	}

	if h.store == nil {
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		h.store = st
	}

	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg, err := loadRules(scenario.Rules)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	players := make([]game.Player, 0, len(scenario.Players))
	for i, p := range scenario.Players {
		bp, err := roles.NewBlueprint(p.Role, p.Params)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: players[%d]: %w", scenario.Name, i, err)
		}
		players = append(players, game.FromBlueprint(p.Name, bp))
	}

	gameID := scenario.GameID
	switch {
	case gameID != "":
	case h.ids != nil:
		gameID = h.ids.Generate()
	default:
		gameID = "game-" + scenario.Name
	}

	rec, err := store.NewRecorder(ctx, h.store, store.Game{
		ID:        gameID,
		Name:      scenario.Name,
		RulesFile: scenario.Rules,
		Players:   len(players),
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	g, err := game.New(players, cfg.RuleSet, cfg.RoleOrder, game.WithObserver(rec))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.GameID = gameID
	if err := h.executeSteps(g, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	if err := rec.Err(); err != nil {
		return nil, fmt.Errorf("scenario %s: journal: %w", scenario.Name, err)
	}

	result.Final = g.State()
	if result.Trace, err = h.store.ReadEvents(ctx, gameID); err != nil {
		return nil, err
	}

	if scenario.Expect != nil {
		for _, msg := range checkExpectation(g, *scenario.Expect) {
			result.AddError(msg)
		}
	}
	actx := &AssertionContext{Store: h.store, Ctx: ctx, GameID: gameID}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished", "scenario", scenario.Name, "pass", result.Pass, "events", len(result.Trace))
	return result, nil
}

// executeSteps answers the pending requests. A step that fails
// unexpectedly stops the run; later steps would answer the wrong request.
func (h *Harness) executeSteps(g *game.Game, steps []Step, result *Result) error {
	for i, step := range steps {
		if g.Ended() {
			result.AddError(fmt.Sprintf("steps[%d]: game already ended (%d steps left)", i, len(steps)-i))
			return nil
		}

		req, err := g.CurrentInputRequest()
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.ExpectRequest != "" && req.Kind() != step.ExpectRequest {
			result.AddError(fmt.Sprintf("steps[%d]: expected a %s request, got %s", i, step.ExpectRequest, req.Kind()))
		}

		resp, err := roles.DecodeResponse(step.Kind, step.Fields)
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}

		h.logger.Debug("step", "index", i, "request", req.Kind(), "response", resp.Kind())
		err = g.Advance(resp)

		switch {
		case step.ExpectError != "" && err == nil:
			result.AddError(fmt.Sprintf("steps[%d]: expected error %s, got success", i, step.ExpectError))
			return nil
		case step.ExpectError != "":
			if code := ErrorCode(err); code != step.ExpectError {
				result.AddError(fmt.Sprintf("steps[%d]: expected error %s, got %s: %v", i, step.ExpectError, code, err))
			}
		case err != nil:
			result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
			return nil
		}
	}
	return nil
}

func loadRules(path string) (*compiler.Config, error) {
	if path == "" {
		return compiler.CompileString(roles.DefaultRules, roles.DefaultRulesFile)
	}
	return compiler.Load(path)
}

// ErrorCode returns the code of the game or rule error in err's chain, or
// "" if there is none.
func ErrorCode(err error) string {
	var ge *game.GameError
	if errors.As(err, &ge) {
		return string(ge.Code)
	}
	var re *rules.RuleError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return ""
}
