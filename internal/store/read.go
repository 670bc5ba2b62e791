package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrGameNotFound is returned when a game ID has no journal entry.
var ErrGameNotFound = errors.New("game not found")

// GetGame returns the recorded game with id.
func (s *Store) GetGame(ctx context.Context, id string) (Game, error) {
	var g Game
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, rules_file, players FROM games WHERE id = ?
	`, id).Scan(&g.ID, &g.Name, &g.RulesFile, &g.Players)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("get game %s: %w", id, ErrGameNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("get game %s: %w", id, err)
	}
	return g, nil
}

// ReadEvents returns every event of a game ordered by seq.
//
// Returns an empty slice (not nil) if the game has no events.
func (s *Store) ReadEvents(ctx context.Context, gameID string) ([]EventRecord, error) {
	return s.queryEvents(ctx, `
		SELECT game_id, seq, kind, phase, round, action_state, player, payload
		FROM game_events
		WHERE game_id = ?
		ORDER BY seq ASC
	`, gameID)
}

// ReadEventsOfKind returns the events of one kind for a game, ordered by
// seq.
func (s *Store) ReadEventsOfKind(ctx context.Context, gameID, kind string) ([]EventRecord, error) {
	return s.queryEvents(ctx, `
		SELECT game_id, seq, kind, phase, round, action_state, player, payload
		FROM game_events
		WHERE game_id = ? AND kind = ?
		ORDER BY seq ASC
	`, gameID, kind)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []EventRecord{}
	for rows.Next() {
		var rec EventRecord
		var payload string
		if err := rows.Scan(
			&rec.GameID,
			&rec.Seq,
			&rec.Kind,
			&rec.Phase,
			&rec.Round,
			&rec.ActionState,
			&rec.Player,
			&payload,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if rec.Detail, err = unmarshalDetail(payload); err != nil {
			return nil, fmt.Errorf("event %s#%d: %w", rec.GameID, rec.Seq, err)
		}
		events = append(events, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ListGames returns every recorded game with its event count and the kind
// of its last event, ordered by ID. UUIDv7 IDs make that creation order.
func (s *Store) ListGames(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.rules_file, g.players,
			COUNT(e.id),
			COALESCE((
				SELECT kind FROM game_events
				WHERE game_id = g.id
				ORDER BY seq DESC
				LIMIT 1
			), '')
		FROM games g
		LEFT JOIN game_events e ON e.game_id = g.id
		GROUP BY g.id
		ORDER BY g.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []GameSummary{}
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.ID, &g.Name, &g.RulesFile, &g.Players, &g.Events, &g.LastKind); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}
