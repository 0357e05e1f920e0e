package sterling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageCost(t *testing.T) {
	trades := []Trade{
		cash("01/01/2024 09:00", Deposit, "10000"),
		buy("02/01/2024 10:00", "VOD", "5", "100", "1", "0.5"),
		buy("03/01/2024 10:00", "LLOY", "40", "50", "0", "0"),
		buy("04/01/2024 10:00", "VOD", "5", "200", "1", "0.5"),
	}

	testCases := []struct {
		name   string
		symbol string
		held   Quantity
		want   Pence
		wantOK bool
	}{
		{"both buys", "VOD", Q(10), P(150), true},
		{"only the last buy is needed", "VOD", Q(5), P(200), true},
		// The oldest scanned buy counts in full even if it overshoots.
		{"overshoot is not prorated", "VOD", Q(7), P(150), true},
		{"held exceeds what was bought", "VOD", Q(20), P(150), true},
		{"other symbol", "LLOY", Q(40), P(50), true},
		{"never bought", "BARC", Q(1), Pence{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := averageCost(trades, tc.symbol, tc.held)
			assert.Equal(t, tc.wantOK, ok)
			assert.True(t, got.Equal(tc.want), "averageCost() = %v, want %v", got, tc.want)
		})
	}
}

func TestAverageCost_Rounding(t *testing.T) {
	trades := []Trade{
		buy("02/01/2024 10:00", "VOD", "3", "100", "0", "0"),
		buy("03/01/2024 10:00", "VOD", "3", "100", "0", "0"),
		buy("04/01/2024 10:00", "VOD", "3", "101", "0", "0"),
	}
	got, ok := averageCost(trades, "VOD", Q(9))
	assert.True(t, ok)
	assert.Equal(t, "100.3333", got.Decimal().String())
}

func TestAverageCost_IgnoresSells(t *testing.T) {
	trades := []Trade{
		buy("02/01/2024 10:00", "VOD", "10", "100", "0", "0"),
		sell("03/01/2024 10:00", "VOD", "5", "300", "0", "0"),
	}
	got, ok := averageCost(trades, "VOD", Q(5))
	assert.True(t, ok)
	assert.True(t, got.Equal(P(100)))
}
