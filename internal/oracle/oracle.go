// Package oracle supplies the current reference price used to open and score guesses.
package oracle

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnavailable is wrapped by every oracle failure. Callers treat it as transient.
var ErrUnavailable = errors.New("price oracle unavailable")

// Oracle reports the current reference price
type Oracle interface {
	CurrentPrice(ctx context.Context) (decimal.Decimal, error)
}
