package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case GuessResult:
		o.printGuessResult(v)
	case StatusResult:
		o.printStatus(v)
	case PriceResult:
		fmt.Fprintf(o.w, "BTC price: %s %s (source: %s)\n", v.Price, v.Currency, v.Source)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	case PlayerInfo:
		fmt.Fprintf(o.w, "Player: %s\n", v.PlayerID)
		if v.File != "" {
			fmt.Fprintf(o.w, "Saved to: %s\n", v.File)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ActiveGuess response type (matches API)
type ActiveGuess struct {
	InitialPrice string    `json:"initial_price"`
	Direction    string    `json:"direction"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// GuessResult response type
type GuessResult struct {
	Message     string       `json:"message"`
	PlayerID    string       `json:"player_id"`
	ActiveGuess *ActiveGuess `json:"active_guess"`
}

// StatusResult response type
type StatusResult struct {
	PlayerID          string       `json:"player_id"`
	Score             int          `json:"score"`
	ActiveGuess       *ActiveGuess `json:"active_guess"`
	ResolutionMessage *string      `json:"resolution_message"`
	ScoreChange       int          `json:"score_change"`
	ResolvesAt        *time.Time   `json:"resolves_at,omitempty"`
}

// Resolved reports whether this status carries a freshly scored guess
func (s StatusResult) Resolved() bool {
	return s.ScoreChange != 0
}

// PriceResult response type
type PriceResult struct {
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Source   string `json:"source"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// PlayerInfo describes the locally configured player
type PlayerInfo struct {
	PlayerID string `json:"player_id"`
	File     string `json:"file,omitempty"`
}

func (o *Output) printGuessResult(g GuessResult) {
	fmt.Fprintln(o.w, g.Message)
	if g.ActiveGuess != nil {
		fmt.Fprintf(o.w, "Player: %s\n", g.PlayerID)
		fmt.Fprintf(o.w, "Guess: %s from %s\n", g.ActiveGuess.Direction, g.ActiveGuess.InitialPrice)
		fmt.Fprintf(o.w, "Submitted: %s\n", g.ActiveGuess.SubmittedAt.Format(time.RFC3339))
	}
}

func (o *Output) printStatus(s StatusResult) {
	fmt.Fprintf(o.w, "Player: %s\n", s.PlayerID)
	fmt.Fprintf(o.w, "Score: %d\n", s.Score)
	if s.ActiveGuess != nil {
		fmt.Fprintf(o.w, "Active guess: %s from %s\n", s.ActiveGuess.Direction, s.ActiveGuess.InitialPrice)
		if s.ResolvesAt != nil {
			fmt.Fprintf(o.w, "Resolves after: %s\n", s.ResolvesAt.Format(time.RFC3339))
		}
	} else {
		fmt.Fprintln(o.w, "Active guess: none")
	}
	if s.ResolutionMessage != nil {
		fmt.Fprintln(o.w, *s.ResolutionMessage)
	}
}
