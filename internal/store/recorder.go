package store

import (
	"context"
	"log/slog"

	"github.com/roach88/werewolf/internal/game"
)

// Recorder journals the events of one game. It implements game.Observer.
//
// Observers cannot fail a transition, so the first write error is kept and
// later events are dropped; check Err once the game is over.
type Recorder struct {
	ctx    context.Context
	store  *Store
	gameID string
	clock  *Clock
	err    error
}

// NewRecorder records g and returns an observer journaling its events.
func NewRecorder(ctx context.Context, s *Store, g Game) (*Recorder, error) {
	if err := s.CreateGame(ctx, g); err != nil {
		return nil, err
	}
	return &Recorder{ctx: ctx, store: s, gameID: g.ID, clock: NewClock()}, nil
}

// OnEvent journals e.
func (r *Recorder) OnEvent(e game.Event) {
	if r.err != nil {
		return
	}
	if err := r.store.WriteEvent(r.ctx, NewEventRecord(r.gameID, r.clock.Next(), e)); err != nil {
		slog.Error("journal write failed, recording stopped", "game", r.gameID, "error", err)
		r.err = err
	}
}

// GameID returns the recorded game's ID.
func (r *Recorder) GameID() string {
	return r.gameID
}

// Written returns how many events have been journaled.
func (r *Recorder) Written() int64 {
	if r.err != nil {
		return r.clock.Current() - 1
	}
	return r.clock.Current()
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	return r.err
}
