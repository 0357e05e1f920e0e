// Package refresh implements the background worker that keeps holding prices
// up to date.
//
// A Worker periodically asks a PriceSource for the last close price of every
// symbol it has been given, and hands the resulting Snapshot to a callback.
// It is driven through a small set of commands (pause, resume, run once,
// cancel the current wait) consumed by a single goroutine, and stops when its
// context is cancelled or Shutdown is called.
package refresh

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource returns the last close price of a symbol, in pence.
type PriceSource interface {
	LastClosePrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// PriceSourceFunc adapts a function to the PriceSource interface.
type PriceSourceFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)

func (f PriceSourceFunc) LastClosePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return f(ctx, symbol)
}

// PriceFetchError reports a symbol the source could not price. The worker
// drops the symbol from the cycle's snapshot and carries on.
type PriceFetchError struct {
	Symbol string
	Err    error
}

func (e *PriceFetchError) Error() string {
	return fmt.Sprintf("cannot fetch price of %s: %v", e.Symbol, e.Err)
}

func (e *PriceFetchError) Unwrap() error { return e.Err }

// Snapshot is the result of one completed sweep over the symbol set.
type Snapshot struct {
	// Generation identifies the symbol set the sweep ran on. It changes on
	// every Reset.
	Generation uint64
	Taken      time.Time
	Prices     map[string]decimal.Decimal // pence, by symbol. Missing symbols failed.
}

// Price returns the price of symbol in the snapshot.
func (s Snapshot) Price(symbol string) (decimal.Decimal, bool) {
	p, ok := s.Prices[symbol]
	return p, ok
}

// Len returns the number of priced symbols.
func (s Snapshot) Len() int { return len(s.Prices) }

func (s Snapshot) clone() Snapshot {
	s.Prices = maps.Clone(s.Prices)
	if s.Prices == nil {
		s.Prices = make(map[string]decimal.Decimal)
	}
	return s
}
