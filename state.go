package sterling

import (
	"fmt"
	"slices"
)

// State is a consistent copy of the ledger state. Its valuation methods are
// pure functions of the copy.
type State struct {
	Name          string
	CashAvailable Money
	CashDeposited Money
	Holdings      []Holding // sorted by symbol.
	Unsaved       bool
}

// Holding returns the holding on symbol.
func (s State) Holding(symbol string) (Holding, bool) {
	i := slices.IndexFunc(s.Holdings, func(h Holding) bool { return h.Symbol == symbol })
	if i < 0 {
		return Holding{}, false
	}
	return s.Holdings[i], true
}

// Symbols returns the held symbols in alphabetical order.
func (s State) Symbols() []string {
	symbols := make([]string, len(s.Holdings))
	for i, h := range s.Holdings {
		symbols[i] = h.Symbol
	}
	return symbols
}

// HoldingsValue returns the market value of all holdings. It is unavailable
// as soon as one holding has no valid price: a partial sum would understate
// the portfolio.
func (s State) HoldingsValue() (Money, bool) {
	var total Money
	for _, h := range s.Holdings {
		v, ok := h.Value()
		if !ok {
			return Money{}, false
		}
		total = total.Add(v)
	}
	return total, true
}

// HoldingsCost returns the cost basis of all holdings.
func (s State) HoldingsCost() (Money, bool) {
	var total Money
	for _, h := range s.Holdings {
		c, ok := h.Cost()
		if !ok {
			return Money{}, false
		}
		total = total.Add(c)
	}
	return total, true
}

// TotalValue returns cash available plus holdings value.
func (s State) TotalValue() (Money, bool) {
	v, ok := s.HoldingsValue()
	if !ok {
		return Money{}, false
	}
	return s.CashAvailable.Add(v), true
}

// ProfitLoss returns the total value minus the net cash deposited.
func (s State) ProfitLoss() (Money, bool) {
	v, ok := s.TotalValue()
	if !ok {
		return Money{}, false
	}
	return v.Sub(s.CashDeposited), true
}

// ProfitLossPercent returns ProfitLoss relative to the cash deposited. It is
// undefined when less than £1 was deposited.
func (s State) ProfitLossPercent() (Percent, bool) {
	pl, ok := s.ProfitLoss()
	if !ok || s.CashDeposited.LessThan(M(1)) {
		return 0, false
	}
	return pl.Ratio(s.CashDeposited), true
}

// OpenProfitLoss sums the profit or loss of every holding. It fails with
// ErrPriceUnavailable if any holding cannot report one.
func (s State) OpenProfitLoss() (Money, error) {
	var total Money
	for _, h := range s.Holdings {
		pl, ok := h.ProfitLoss()
		if !ok {
			return Money{}, fmt.Errorf("open profit/loss of %s: %w", h.Symbol, ErrPriceUnavailable)
		}
		total = total.Add(pl)
	}
	return total, nil
}

// Weights returns the share of each holding in the holdings value, by symbol.
func (s State) Weights() (map[string]Percent, bool) {
	total, ok := s.HoldingsValue()
	if !ok || total.IsZero() {
		return nil, false
	}
	weights := make(map[string]Percent, len(s.Holdings))
	for _, h := range s.Holdings {
		v, _ := h.Value()
		weights[h.Symbol] = v.Ratio(total)
	}
	return weights, true
}
