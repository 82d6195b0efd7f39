package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mcoot/btcguesser/internal/oracle"
)

// MockOracle is a scriptable price oracle for testing.
// Queued prices are returned first, after which the current price repeats.
type MockOracle struct {
	mu      sync.Mutex
	current decimal.Decimal
	queue   []decimal.Decimal
	err     error
	calls   int
}

// Ensure MockOracle implements Oracle
var _ oracle.Oracle = (*MockOracle)(nil)

// NewMockOracle creates a MockOracle that reports the given price
func NewMockOracle(price float64) *MockOracle {
	return &MockOracle{current: decimal.NewFromFloat(price)}
}

// CurrentPrice returns the next queued price, or the current price
func (o *MockOracle) CurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++

	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %w", oracle.ErrUnavailable, err)
	}
	if o.err != nil {
		return decimal.Decimal{}, o.err
	}
	if len(o.queue) > 0 {
		p := o.queue[0]
		o.queue = o.queue[1:]
		o.current = p
		return p, nil
	}
	return o.current, nil
}

// SetPrice changes the price returned once the queue is drained
func (o *MockOracle) SetPrice(price float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = decimal.NewFromFloat(price)
}

// QueuePrice appends prices to be returned by subsequent calls
func (o *MockOracle) QueuePrice(prices ...float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, p := range prices {
		o.queue = append(o.queue, decimal.NewFromFloat(p))
	}
}

// SetUnavailable makes every call fail until cleared with SetAvailable
func (o *MockOracle) SetUnavailable() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = fmt.Errorf("%w: mock outage", oracle.ErrUnavailable)
}

// SetAvailable clears a previous SetUnavailable
func (o *MockOracle) SetAvailable() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = nil
}

// Calls returns how many times CurrentPrice has been invoked
func (o *MockOracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}
