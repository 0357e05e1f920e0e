package sterling

// Holding is an open position on one symbol.
//
// Holdings are owned by the Ledger: they are rebuilt on every reload and
// their last price is updated by the refresh worker. Values obtained from
// State are copies.
type Holding struct {
	Symbol   string
	Quantity Quantity // at least 1 while the holding exists.

	OpenPrice    Pence // average cost, in pence.
	HasOpenPrice bool

	LastPrice      Pence // most recent market price, in pence.
	HasLastPrice   bool  // a price has been set at least once.
	LastPriceValid bool  // the price comes from the current refresh generation.
}

// Cost returns the cost basis of the holding in pounds.
func (h Holding) Cost() (Money, bool) {
	if !h.HasOpenPrice {
		return Money{}, false
	}
	return h.OpenPrice.Mul(h.Quantity), true
}

// Value returns the market value of the holding in pounds. It is unavailable
// until a refresh succeeded for the symbol.
func (h Holding) Value() (Money, bool) {
	if !h.HasLastPrice || !h.LastPriceValid {
		return Money{}, false
	}
	return h.LastPrice.Mul(h.Quantity), true
}

// ProfitLoss returns value minus cost.
func (h Holding) ProfitLoss() (Money, bool) {
	cost, ok := h.Cost()
	if !ok {
		return Money{}, false
	}
	value, ok := h.Value()
	if !ok {
		return Money{}, false
	}
	return value.Sub(cost), true
}

// ProfitLossPercent returns the profit or loss relative to the cost.
func (h Holding) ProfitLossPercent() (Percent, bool) {
	pl, ok := h.ProfitLoss()
	if !ok {
		return 0, false
	}
	cost, _ := h.Cost()
	if cost.IsZero() {
		return 0, false
	}
	return pl.Ratio(cost), true
}

// setPrice records a refreshed market price.
func (h *Holding) setPrice(p Pence) {
	h.LastPrice = p
	h.HasLastPrice = true
	h.LastPriceValid = true
}

// invalidatePrice marks the price as stale without forgetting it.
func (h *Holding) invalidatePrice() {
	h.LastPriceValid = false
}
