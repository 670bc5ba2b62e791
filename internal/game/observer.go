package game

// EventKind names a notable transition.
type EventKind string

const (
	EventGameStarted    EventKind = "game_started"
	EventInputRequested EventKind = "input_requested"
	EventInputApplied   EventKind = "input_applied"
	EventTagsCollapsed  EventKind = "tags_collapsed"
	EventPlayerKilled   EventKind = "player_killed"
	EventPhaseSkipped   EventKind = "phase_skipped"
	EventPhaseAdvanced  EventKind = "phase_advanced"
	EventGameEnded      EventKind = "game_ended"
)

// Event describes one transition. Phase, Round and ActionState are taken
// from the state right after the transition.
type Event struct {
	Kind        EventKind         `json:"kind"`
	Phase       Phase             `json:"phase"`
	Round       int               `json:"round"`
	ActionState ActionState       `json:"action_state"`
	Player      string            `json:"player,omitempty"`
	Detail      map[string]string `json:"detail,omitempty"`
}

// Observer receives events after each successful call that changed the
// game. Events from a failed Advance are dropped with the state change.
// Observers cannot fail a transition; one that can fail must keep the
// error itself.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// eventLog buffers the events of one transition run.
type eventLog struct {
	events []Event
}

func (l *eventLog) add(s *State, kind EventKind, player string, detail map[string]string) {
	l.events = append(l.events, Event{
		Kind:        kind,
		Phase:       s.phase,
		Round:       s.round,
		ActionState: s.actionState,
		Player:      player,
		Detail:      detail,
	})
}
