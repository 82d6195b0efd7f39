package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mcoot/btcguesser/internal/model"
)

// Outcome deltas. There is no tie outcome; equal prices never reach Score.
const (
	Correct   = 1
	Incorrect = -1
)

// Score returns +1 when the price moved in the guessed direction, -1 otherwise.
// resolved must differ from initial.
func Score(direction model.Direction, initial, resolved decimal.Decimal) int {
	switch direction {
	case model.DirectionUp:
		if resolved.GreaterThan(initial) {
			return Correct
		}
	case model.DirectionDown:
		if resolved.LessThan(initial) {
			return Correct
		}
	}
	return Incorrect
}

// Message renders the human-readable result shown to the player
func Message(delta int, initial, resolved decimal.Decimal) string {
	if delta == Correct {
		return fmt.Sprintf("Correct! Price went from %s to %s. You gained 1 point.", initial, resolved)
	}
	return fmt.Sprintf("Incorrect. Price went from %s to %s. You lost 1 point.", initial, resolved)
}
