package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Direction is the price movement a player predicts
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Valid reports whether d is one of the allowed directions
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// ParseDirection converts user input into a Direction.
// Only the exact literals "up" and "down" are accepted.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp:
		return DirectionUp, nil
	case DirectionDown:
		return DirectionDown, nil
	default:
		return "", ErrInvalidDirection
	}
}

// ActiveGuess is a player's single pending prediction.
// It is owned by its PlayerRecord and has no lifetime of its own.
type ActiveGuess struct {
	InitialPrice decimal.Decimal
	Direction    Direction
	SubmittedAt  time.Time
}

// Age returns how long the guess has been outstanding at the given instant
func (g *ActiveGuess) Age(now time.Time) time.Duration {
	return now.Sub(g.SubmittedAt)
}

// ResolvesAt returns the earliest instant the guess is eligible for scoring
func (g *ActiveGuess) ResolvesAt(window time.Duration) time.Time {
	return g.SubmittedAt.Add(window)
}

// PlayerRecord is the persistent per-player state
type PlayerRecord struct {
	PlayerID    PlayerID
	Score       int
	ActiveGuess *ActiveGuess // nil when the player has no unresolved guess

	// Version increases by one on every successful write and guards conditional updates
	Version int64
}

// NewPlayerRecord returns a fresh record with score 0 and no guess
func NewPlayerRecord(id PlayerID) *PlayerRecord {
	return &PlayerRecord{PlayerID: id}
}

// HasActiveGuess reports whether the player has an unresolved guess
func (p *PlayerRecord) HasActiveGuess() bool {
	return p != nil && p.ActiveGuess != nil
}

// Clone returns a deep copy so callers can build a next state without mutating the original
func (p *PlayerRecord) Clone() *PlayerRecord {
	if p == nil {
		return nil
	}
	c := *p
	if p.ActiveGuess != nil {
		g := *p.ActiveGuess
		c.ActiveGuess = &g
	}
	return &c
}
