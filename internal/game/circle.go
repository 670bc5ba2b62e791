package game

import (
	"encoding/json"
	"fmt"
	"slices"
)

// PlayerCircle is the ordered, duplicate-free seating of players. Index
// access wraps around so neighbors of the first and last seat resolve.
type PlayerCircle struct {
	players []Player
	index   map[string]int
}

// NewPlayerCircle seats players in order. At least one player is required;
// names must be unique and non-empty.
func NewPlayerCircle(players ...Player) (*PlayerCircle, error) {
	if len(players) == 0 {
		return nil, &GameError{Code: ErrCodeInvalidInput, Message: "at least one player is required"}
	}
	c := &PlayerCircle{
		players: slices.Clone(players),
		index:   make(map[string]int, len(players)),
	}
	for i, p := range c.players {
		if p.name == "" {
			return nil, &GameError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("player at seat %d has no name", i)}
		}
		if _, dup := c.index[p.name]; dup {
			return nil, &GameError{
				Code:    ErrCodeDuplicatePlayer,
				Message: fmt.Sprintf("player name %q is used more than once", p.name),
				Player:  p.name,
			}
		}
		c.index[p.name] = i
	}
	return c, nil
}

// Len returns the number of seats.
func (c *PlayerCircle) Len() int {
	return len(c.players)
}

// At returns the player at seat i, wrapping in both directions.
func (c *PlayerCircle) At(i int) Player {
	n := len(c.players)
	return c.players[((i%n)+n)%n]
}

// Get looks a player up by name.
func (c *PlayerCircle) Get(name string) (Player, bool) {
	i, ok := c.index[name]
	if !ok {
		return Player{}, false
	}
	return c.players[i], true
}

// IndexOf returns the seat of name, or -1.
func (c *PlayerCircle) IndexOf(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// Neighbors returns the players seated left and right of name.
func (c *PlayerCircle) Neighbors(name string) (left, right Player, err error) {
	i, ok := c.index[name]
	if !ok {
		return Player{}, Player{}, unknownPlayer(name)
	}
	return c.At(i - 1), c.At(i + 1), nil
}

// All returns the players in seat order.
func (c *PlayerCircle) All() []Player {
	return slices.Clone(c.players)
}

// Names returns the player names in seat order.
func (c *PlayerCircle) Names() []string {
	names := make([]string, len(c.players))
	for i, p := range c.players {
		names[i] = p.name
	}
	return names
}

// Replace returns a circle with the player of the same name swapped for p.
func (c *PlayerCircle) Replace(p Player) (*PlayerCircle, error) {
	i, ok := c.index[p.name]
	if !ok {
		return nil, unknownPlayer(p.name)
	}
	next := &PlayerCircle{players: slices.Clone(c.players), index: c.index}
	next.players[i] = p
	return next, nil
}

// Map returns a circle with fn applied to every player in seat order.
// fn must not rename players.
func (c *PlayerCircle) Map(fn func(Player) (Player, error)) (*PlayerCircle, error) {
	next := &PlayerCircle{players: make([]Player, len(c.players)), index: c.index}
	for i, p := range c.players {
		mapped, err := fn(p)
		if err != nil {
			return nil, err
		}
		if mapped.name != p.name {
			return nil, &GameError{
				Code:    ErrCodeInvalidInput,
				Message: fmt.Sprintf("player %q was renamed to %q", p.name, mapped.name),
				Player:  p.name,
			}
		}
		next.players[i] = mapped
	}
	return next, nil
}

// MarshalJSON renders the circle as a list in seat order.
func (c *PlayerCircle) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.players)
}
