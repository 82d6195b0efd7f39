package model

import "time"

// Status is what a status query reports back to the presentation layer
type Status struct {
	PlayerID    PlayerID
	Score       int
	ActiveGuess *ActiveGuess

	// ResolvesAt is set while a guess is active
	ResolvesAt *time.Time

	// ResolutionMessage is non-nil only on the poll that resolved a guess,
	// or as an informational note for unknown players
	ResolutionMessage *string
	ScoreDelta        int
}

// Resolved reports whether this status carries a freshly scored guess
func (s *Status) Resolved() bool {
	return s.ScoreDelta != 0
}
