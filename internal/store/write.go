package store

import (
	"context"
	"fmt"
)

// CreateGame records a game. Uses ON CONFLICT(id) DO NOTHING, so recording
// the same game twice is a no-op.
func (s *Store) CreateGame(ctx context.Context, g Game) error {
	if g.ID == "" {
		return fmt.Errorf("create game: id is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, name, rules_file, players)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, g.ID, g.Name, g.RulesFile, g.Players)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// WriteEvent appends an event to the journal.
//
// The game must have been recorded with CreateGame (foreign key). A second
// event with the same (game_id, seq) is rejected; the journal never
// rewrites history.
func (s *Store) WriteEvent(ctx context.Context, rec EventRecord) error {
	payload, err := marshalDetail(rec.Detail)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_events
		(game_id, seq, kind, phase, round, action_state, player, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.GameID,
		rec.Seq,
		rec.Kind,
		rec.Phase,
		rec.Round,
		rec.ActionState,
		rec.Player,
		payload,
	)
	if err != nil {
		return fmt.Errorf("write event %s#%d: %w", rec.GameID, rec.Seq, err)
	}
	return nil
}
