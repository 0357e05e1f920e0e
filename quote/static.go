package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/sterling/refresh"
	"github.com/shopspring/decimal"
)

var _ refresh.PriceSource = Static(nil)

// Static is a fixed table of prices in pence, by symbol.
type Static map[string]decimal.Decimal

// NewStatic returns a Static source from float prices.
func NewStatic(prices map[string]float64) Static {
	s := make(Static, len(prices))
	for symbol, p := range prices {
		s[strings.ToUpper(symbol)] = decimal.NewFromFloat(p)
	}
	return s
}

// LastClosePrice implements refresh.PriceSource.
func (s Static) LastClosePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	p, ok := s[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w for %q", ErrNoQuote, symbol)
	}
	return p, nil
}
