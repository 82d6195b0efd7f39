package oracle

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Shared collapses concurrent CurrentPrice calls into a single upstream request.
// Many pollers crossing the resolution window at once then cost one fetch.
type Shared struct {
	next  Oracle
	group singleflight.Group
}

// Ensure Shared implements Oracle
var _ Oracle = (*Shared)(nil)

// NewShared wraps an oracle with request coalescing
func NewShared(next Oracle) *Shared {
	return &Shared{next: next}
}

// CurrentPrice returns the price from the in-flight request if there is one
func (s *Shared) CurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	ch := s.group.DoChan("price", func() (any, error) {
		// Detached from the first caller so its cancellation does not fail the others.
		// The wrapped oracle bounds the request with its own timeout.
		return s.next.CurrentPrice(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return decimal.Decimal{}, res.Err
		}
		return res.Val.(decimal.Decimal), nil
	case <-ctx.Done():
		return decimal.Decimal{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}
