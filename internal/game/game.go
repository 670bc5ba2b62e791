package game

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/roach88/werewolf/internal/rules"
)

// Game drives a State through the action-state machine.
//
// The host alternates CurrentInputRequest and Advance. Advance runs every
// automatic transition until the machine awaits input again or the game
// ends.
//
// Thread-safety model:
//   - a Game has a single writer; Advance must not run concurrently
//   - State snapshots are immutable and safe to share
//
// INVARIANTS:
//   - AwaitingInput holds exactly when a current action is set
//   - a failed Advance leaves State unchanged and emits no events
type Game struct {
	state     *State
	rules     *rules.RuleSet
	roleOrder map[string]int
	god       Role
	observers []Observer
}

// Option configures a Game.
type Option func(*Game)

// WithObserver registers an observer for transition events.
func WithObserver(o Observer) Option {
	return func(g *Game) {
		g.observers = append(g.observers, o)
	}
}

// WithGodRole replaces the role whose DayAction opens every day.
//
// Default: GodRole, which issues the village vote.
func WithGodRole(r Role) Option {
	return func(g *Game) {
		g.god = r
	}
}

// New seats players, validates the role order and gathers the first
// night's actions.
//
// roleOrder maps role names to priorities; lower values act first. Every
// role that might act must have an entry.
func New(players []Player, rs *rules.RuleSet, roleOrder map[string]int, opts ...Option) (*Game, error) {
	if rs == nil {
		return nil, &GameError{Code: ErrCodeInvalidInput, Message: "a ruleset is required"}
	}
	circle, err := NewPlayerCircle(players...)
	if err != nil {
		return nil, err
	}

	g := &Game{
		rules:     rs,
		roleOrder: maps.Clone(roleOrder),
		god:       GodRole{},
	}
	for _, opt := range opts {
		opt(g)
	}

	s := NewState(circle)
	for _, r := range s.RolesInPlay() {
		if _, err := g.order(r); err != nil {
			return nil, err
		}
	}

	log := &eventLog{}
	log.add(s, EventGameStarted, "", map[string]string{"players": strconv.Itoa(circle.Len())})

	s, err = g.run(s, log)
	if err != nil {
		return nil, err
	}
	g.state = s
	g.emit(log)
	return g, nil
}

// State returns the current snapshot.
func (g *Game) State() *State {
	return g.state
}

// RuleSet returns the rules tags are collapsed with.
func (g *Game) RuleSet() *rules.RuleSet {
	return g.rules
}

// Ended reports whether the game reached GameEnded.
func (g *Game) Ended() bool {
	return g.state.actionState == GameEnded
}

// CurrentInputRequest describes the input the pending action needs.
func (g *Game) CurrentInputRequest() (InputRequest, error) {
	s := g.state
	if s.actionState != AwaitingInput || s.current == nil {
		return nil, invalidState("fetch an input request", s.actionState)
	}
	return s.current.InputRequest(s)
}

// Advance applies resp to the pending action and runs the machine until it
// awaits input again or the game ends. On error the state is unchanged.
func (g *Game) Advance(resp InputResponse) error {
	if g.state.actionState != AwaitingInput || g.state.current == nil {
		return invalidState("submit input", g.state.actionState)
	}

	log := &eventLog{}
	next, err := g.applyInput(g.state, resp, log)
	if err != nil {
		return err
	}
	next, err = g.run(next, log)
	if err != nil {
		return err
	}

	g.state = next
	g.emit(log)
	return nil
}

// run performs automatic transitions until input is needed or the game
// ends.
func (g *Game) run(s *State, log *eventLog) (*State, error) {
	skipped := 0
	for {
		from := s.actionState
		var err error

		switch s.actionState {
		case AwaitingInput, GameEnded:
			return s, nil
		case AwaitingActionGathering:
			s, err = g.gatherActions(s, log)
			if err == nil && s.actionState == AwaitingTagCollapse {
				skipped++
				if skipped > 1 {
					return nil, &GameError{
						Code:    ErrCodeStalled,
						Message: fmt.Sprintf("no role acted in two consecutive phases (now %s of round %d)", s.phase, s.round),
						State:   AwaitingActionGathering,
					}
				}
			}
		case AwaitingTagCollapse:
			s, err = g.collapseTags(s, log)
		case AwaitingTagConsequences:
			s, err = g.applyConsequences(s, log)
		case AwaitingWinConditionEvaluation:
			s, err = g.evaluateWinConditions(s, log)
		case AwaitingPhaseAdvancement:
			s, err = g.advancePhase(s, log)
		default:
			return nil, invalidState("advance", s.actionState)
		}

		if err != nil {
			return nil, err
		}
		slog.Debug("game transition", "from", from, "to", s.actionState, "phase", s.phase, "round", s.round)
	}
}

// AwaitingInput -> AwaitingInput (more actions queued)
// AwaitingInput -> AwaitingTagCollapse (queue drained)
func (g *Game) applyInput(s *State, resp InputResponse, log *eventLog) (*State, error) {
	action := s.current
	next, err := action.Transform(s, resp)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, &GameError{
			Code:    ErrCodeInvalidState,
			Message: fmt.Sprintf("action %s returned no state", action.Name()),
			State:   s.actionState,
			Player:  action.Actor(),
		}
	}

	log.add(next, EventInputApplied, action.Actor(), map[string]string{
		"action": action.Name(),
		"kind":   resp.Kind(),
	})

	if len(next.next) > 0 {
		queue := next.next
		next = next.with(func(n *State) {
			n.actionState = AwaitingInput
			n.current = queue[0]
			n.next = slices.Clone(queue[1:])
		})
		log.add(next, EventInputRequested, next.current.Actor(), map[string]string{"action": next.current.Name()})
		return next, nil
	}

	return next.with(func(n *State) {
		n.actionState = AwaitingTagCollapse
		n.current = nil
		n.next = nil
	}), nil
}

// AwaitingActionGathering -> AwaitingInput
// AwaitingActionGathering -> AwaitingTagCollapse (nothing to do this phase)
func (g *Game) gatherActions(s *State, log *eventLog) (*State, error) {
	type ordered struct {
		role     Role
		priority int
	}
	var candidates []ordered
	for _, r := range s.RolesInPlay() {
		if !r.MightHaveAction() {
			continue
		}
		p, err := g.order(r)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, ordered{r, p})
	}
	slices.SortStableFunc(candidates, func(a, b ordered) int {
		return cmp.Compare(a.priority, b.priority)
	})

	var actions []Action
	if s.phase == Day && g.god != nil {
		if a := g.god.DayAction(s); a != nil {
			actions = append(actions, a)
		}
	}
	for _, c := range candidates {
		var a Action
		if s.phase == Night {
			a = c.role.NightAction(s)
		} else {
			a = c.role.DayAction(s)
		}
		if a != nil {
			actions = append(actions, a)
		}
	}

	if len(actions) == 0 {
		slog.Info("no actions this phase, skipping", "phase", s.phase, "round", s.round)
		s = s.with(func(n *State) {
			n.actionState = AwaitingTagCollapse
			n.current = nil
			n.next = nil
		})
		log.add(s, EventPhaseSkipped, "", nil)
		return s, nil
	}

	s = s.with(func(n *State) {
		n.actionState = AwaitingInput
		n.current = actions[0]
		n.next = actions[1:]
	})
	log.add(s, EventInputRequested, actions[0].Actor(), map[string]string{"action": actions[0].Name()})
	return s, nil
}

// AwaitingTagCollapse -> AwaitingTagConsequences
func (g *Game) collapseTags(s *State, log *eventLog) (*State, error) {
	type change struct {
		player        string
		before, after string
	}
	var changes []change

	players, err := s.players.Map(func(p Player) (Player, error) {
		collapsed, err := g.rules.Collapse(p.tags)
		if err != nil {
			return p, fmt.Errorf("collapse tags of %s: %w", p.name, err)
		}
		if p.tags.Len() > 0 {
			changes = append(changes, change{p.name, p.tags.String(), collapsed.String()})
		}
		return p.WithTags(collapsed), nil
	})
	if err != nil {
		return nil, err
	}

	s = s.with(func(n *State) {
		n.players = players
		n.actionState = AwaitingTagConsequences
	})
	for _, c := range changes {
		log.add(s, EventTagsCollapsed, c.player, map[string]string{"before": c.before, "after": c.after})
	}
	return s, nil
}

// AwaitingTagConsequences -> AwaitingWinConditionEvaluation
func (g *Game) applyConsequences(s *State, log *eventLog) (*State, error) {
	var killed []string
	players, err := s.players.Map(func(p Player) (Player, error) {
		next, err := ApplyMasterTags(p)
		if err != nil {
			return p, err
		}
		if p.IsAlive() && !next.IsAlive() {
			killed = append(killed, p.name)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s = s.with(func(n *State) {
		n.players = players
		n.actionState = AwaitingWinConditionEvaluation
	})
	for _, name := range killed {
		slog.Info("player killed", "player", name, "phase", s.phase, "round", s.round)
		log.add(s, EventPlayerKilled, name, nil)
	}
	return s, nil
}

// AwaitingWinConditionEvaluation -> GameEnded
// AwaitingWinConditionEvaluation -> AwaitingPhaseAdvancement
func (g *Game) evaluateWinConditions(s *State, log *eventLog) (*State, error) {
	end := func(winner Faction) *State {
		name := ""
		if winner != nil {
			name = winner.Name()
		}
		next := s.with(func(n *State) {
			n.actionState = GameEnded
			n.winner = winner
		})
		slog.Info("game ended", "winner", name, "round", next.round)
		log.add(next, EventGameEnded, "", map[string]string{"winner": name})
		return next
	}

	if len(s.LivingPlayers()) == 0 {
		return end(nil), nil
	}
	// only one winner is supported; seat order of factions decides ties
	for _, f := range s.FactionsInPlay() {
		if f.HasWon(s) {
			return end(f), nil
		}
	}
	return s.with(func(n *State) { n.actionState = AwaitingPhaseAdvancement }), nil
}

// AwaitingPhaseAdvancement -> AwaitingActionGathering
func (g *Game) advancePhase(s *State, log *eventLog) (*State, error) {
	s = s.with(func(n *State) {
		if n.phase == Day {
			n.phase = Night
			n.round++
		} else {
			n.phase = Day
		}
		n.actionState = AwaitingActionGathering
	})
	slog.Info("phase advanced", "phase", s.phase, "round", s.round)
	log.add(s, EventPhaseAdvanced, "", nil)
	return s, nil
}

// order returns the role's priority. Roles that never act need none.
func (g *Game) order(r Role) (int, error) {
	if !r.MightHaveAction() {
		return 0, nil
	}
	p, ok := g.roleOrder[r.Name()]
	if !ok {
		return 0, &GameError{
			Code:    ErrCodeUnorderedRole,
			Message: fmt.Sprintf("role %q might act but has no entry in the role order", r.Name()),
			Details: map[string]string{"role": r.Name()},
		}
	}
	return p, nil
}

func (g *Game) emit(log *eventLog) {
	for _, o := range g.observers {
		for _, e := range log.events {
			o.OnEvent(e)
		}
	}
}
