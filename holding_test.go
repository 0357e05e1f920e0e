package sterling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolding(t *testing.T) {
	h := Holding{Symbol: "VOD", Quantity: Q(10), OpenPrice: P(150), HasOpenPrice: true}

	cost, ok := h.Cost()
	assert.True(t, ok)
	assert.True(t, cost.Equal(M(15)))

	_, ok = h.Value()
	assert.False(t, ok, "no price yet")
	_, ok = h.ProfitLoss()
	assert.False(t, ok)

	h.setPrice(P(180))
	v, ok := h.Value()
	assert.True(t, ok)
	assert.True(t, v.Equal(M(18)))
	pl, _ := h.ProfitLoss()
	assert.True(t, pl.Equal(M(3)))
	pct, ok := h.ProfitLossPercent()
	assert.True(t, ok)
	assert.True(t, pct.Equal(20))

	h.invalidatePrice()
	assert.True(t, h.HasLastPrice, "the last price is kept")
	_, ok = h.Value()
	assert.False(t, ok, "a stale price does not value the holding")
}
