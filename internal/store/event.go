package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/werewolf/internal/game"
)

// Game is a recorded game.
type Game struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RulesFile string `json:"rules_file,omitempty"`
	Players   int    `json:"players"`
}

// GameSummary is a recorded game with its journal statistics.
type GameSummary struct {
	Game
	Events   int    `json:"events"`
	LastKind string `json:"last_kind,omitempty"`
}

// EventRecord is one journaled game.Event.
type EventRecord struct {
	GameID      string            `json:"game_id"`
	Seq         int64             `json:"seq"`
	Kind        string            `json:"kind"`
	Phase       string            `json:"phase"`
	Round       int               `json:"round"`
	ActionState string            `json:"action_state"`
	Player      string            `json:"player,omitempty"`
	Detail      map[string]string `json:"detail,omitempty"`
}

// NewEventRecord stamps e for the journal.
func NewEventRecord(gameID string, seq int64, e game.Event) EventRecord {
	return EventRecord{
		GameID:      gameID,
		Seq:         seq,
		Kind:        string(e.Kind),
		Phase:       e.Phase.String(),
		Round:       e.Round,
		ActionState: e.ActionState.String(),
		Player:      e.Player,
		Detail:      e.Detail,
	}
}

// marshalDetail converts event detail to JSON TEXT for storage.
// Map keys are sorted by encoding/json, so identical details always
// serialize identically.
func marshalDetail(detail map[string]string) (string, error) {
	if len(detail) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // tag sets render as {'a', 'b'}; keep them readable
	if err := enc.Encode(detail); err != nil {
		return "", fmt.Errorf("marshal detail: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalDetail parses JSON TEXT back to event detail. An empty object
// decodes to nil.
func unmarshalDetail(data string) (map[string]string, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var detail map[string]string
	if err := json.Unmarshal([]byte(data), &detail); err != nil {
		return nil, fmt.Errorf("unmarshal detail: %w", err)
	}
	return detail, nil
}
