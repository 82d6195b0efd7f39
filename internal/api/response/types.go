package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/btcguesser/internal/model"
)

// SubmitGuessMessage confirms an accepted guess
const SubmitGuessMessage = "Guess submitted successfully."

// ActiveGuess represents an unresolved guess.
// Prices are encoded as JSON strings to keep them exact.
type ActiveGuess struct {
	InitialPrice decimal.Decimal `json:"initial_price"`
	Direction    string          `json:"direction"`
	SubmittedAt  time.Time       `json:"submitted_at"`
}

// ActiveGuessFromModel converts a model.ActiveGuess, returning nil for nil
func ActiveGuessFromModel(g *model.ActiveGuess) *ActiveGuess {
	if g == nil {
		return nil
	}
	return &ActiveGuess{
		InitialPrice: g.InitialPrice,
		Direction:    string(g.Direction),
		SubmittedAt:  g.SubmittedAt,
	}
}

// SubmitGuessResponse is the response after submitting a guess
type SubmitGuessResponse struct {
	Message     string       `json:"message"`
	PlayerID    string       `json:"player_id"`
	ActiveGuess *ActiveGuess `json:"active_guess"`
}

// Status is the response for a player status query
type Status struct {
	PlayerID          string       `json:"player_id"`
	Score             int          `json:"score"`
	ActiveGuess       *ActiveGuess `json:"active_guess"`
	ResolutionMessage *string      `json:"resolution_message"`
	ScoreChange       int          `json:"score_change"`
	ResolvesAt        *time.Time   `json:"resolves_at,omitempty"`
}

// StatusFromModel converts model.Status
func StatusFromModel(s *model.Status) Status {
	return Status{
		PlayerID:          string(s.PlayerID),
		Score:             s.Score,
		ActiveGuess:       ActiveGuessFromModel(s.ActiveGuess),
		ResolutionMessage: s.ResolutionMessage,
		ScoreChange:       s.ScoreDelta,
		ResolvesAt:        s.ResolvesAt,
	}
}

// Price is the response for the current price endpoint
type Price struct {
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Source   string          `json:"source"`
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
