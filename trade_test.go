package sterling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cash returns a cash trade.
func cash(date string, action Action, amount string) Trade {
	return MustTrade(TradeRecord{Date: date, Action: string(action), Quantity: amount})
}

// buy returns a BUY trade, price in pence, fee in pounds, sdr in percent.
func buy(date, symbol, qty, price, fee, sdr string) Trade {
	return MustTrade(TradeRecord{Date: date, Action: "BUY", Symbol: symbol, Quantity: qty, Price: price, Fee: fee, StampDuty: sdr})
}

func sell(date, symbol, qty, price, fee, sdr string) Trade {
	return MustTrade(TradeRecord{Date: date, Action: "SELL", Symbol: symbol, Quantity: qty, Price: price, Fee: fee, StampDuty: sdr})
}

func TestNewTrade(t *testing.T) {
	testCases := []struct {
		name      string
		record    TradeRecord
		wantTotal Money
		wantField string // non empty if an InvalidTradeError is expected.
	}{
		{
			name:      "deposit",
			record:    TradeRecord{Date: "01/01/2024 09:00", Action: "deposit", Quantity: "1000"},
			wantTotal: M(1000),
		},
		{
			name:      "buy with fee and stamp duty",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "BUY", Symbol: "vod", Quantity: "10", Price: "100", Fee: "1", StampDuty: "0.5"},
			wantTotal: M(-11.05),
		},
		{
			name:      "sell is taxed like a buy",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "SELL", Symbol: "VOD", Quantity: "10", Price: "200", Fee: "1", StampDuty: "0.5"},
			wantTotal: M(18.9),
		},
		{
			name:      "thousands separator",
			record:    TradeRecord{Date: "02/01/2024", Action: "DIVIDEND", Quantity: "1,250.50"},
			wantTotal: M(1250.5),
		},
		{
			name:      "unknown action",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "SWAP", Quantity: "1"},
			wantField: "action",
		},
		{
			name:      "bad date",
			record:    TradeRecord{Date: "2024-01-02", Action: "DEPOSIT", Quantity: "1"},
			wantField: "date",
		},
		{
			name:      "zero quantity",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "DEPOSIT", Quantity: "0"},
			wantField: "quantity",
		},
		{
			name:      "buy without symbol",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "BUY", Quantity: "1", Price: "100"},
			wantField: "symbol",
		},
		{
			name:      "fractional buy",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "BUY", Symbol: "VOD", Quantity: "0.5", Price: "100"},
			wantField: "quantity",
		},
		{
			name:      "fractional sell",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "SELL", Symbol: "VOD", Quantity: "10.25", Price: "100"},
			wantField: "quantity",
		},
		{
			name:      "whole units written with decimals",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "BUY", Symbol: "VOD", Quantity: "10.00", Price: "100"},
			wantTotal: M(-10),
		},
		{
			name:      "negative fee",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "BUY", Symbol: "VOD", Quantity: "1", Price: "100", Fee: "-1"},
			wantField: "fee",
		},
		{
			name:      "price is not a number",
			record:    TradeRecord{Date: "02/01/2024 10:00", Action: "BUY", Symbol: "VOD", Quantity: "1", Price: "abc"},
			wantField: "price",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewTrade(tc.record)
			if tc.wantField != "" {
				var invalid *InvalidTradeError
				require.True(t, errors.As(err, &invalid), "NewTrade() error = %v, want an InvalidTradeError", err)
				assert.Equal(t, tc.wantField, invalid.Field)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Total().Equal(tc.wantTotal), "Total() = %v, want %v", got.Total(), tc.wantTotal)
			assert.NotEmpty(t, got.ID())
		})
	}
}

func TestNewTrade_Defaults(t *testing.T) {
	tr := MustTrade(TradeRecord{Action: "BUY", Symbol: " lloy ", Quantity: "3"})
	assert.Equal(t, "LLOY", tr.Symbol())
	assert.True(t, tr.Price().IsZero())
	assert.True(t, tr.Fee().IsZero())
	assert.Equal(t, 0, tr.Date().Second())
	assert.WithinDuration(t, Now(), tr.Date(), time.Minute)

	// Two trades never share a generated id.
	assert.NotEqual(t, tr.ID(), MustTrade(TradeRecord{Action: "DEPOSIT", Quantity: "1"}).ID())
}

func TestTrade_Record(t *testing.T) {
	tr := buy("02/01/2024 10:00", "VOD", "10", "100", "1", "0.5")
	back, err := NewTrade(tr.Record())
	require.NoError(t, err)
	assert.True(t, tr.Equal(back))

	dep := cash("01/01/2024 09:00", Deposit, "1000")
	r := dep.Record()
	assert.Empty(t, r.Symbol)
	assert.Empty(t, r.Price)
	assert.Equal(t, "01/01/2024 09:00", r.Date)
}

func TestTradeFilters(t *testing.T) {
	trades := []Trade{
		cash("01/01/2024 09:00", Deposit, "1000"),
		buy("02/01/2024 10:00", "VOD", "10", "100", "0", "0"),
		buy("03/01/2024 10:00", "LLOY", "10", "50", "0", "0"),
	}
	assert.True(t, BySymbol("vod")(trades[1]))
	assert.False(t, BySymbol("vod")(trades[2]))
	assert.True(t, ByAction(Deposit, Withdraw)(trades[0]))
	assert.False(t, ByAction(Sell)(trades[1]))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("31/12/2023 17:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 31, 17, 45, 0, 0, time.UTC), d)
	assert.Equal(t, "31/12/2023 17:45", FormatDate(d))

	d, err = ParseDate("31/12/2023")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Hour())

	_, err = ParseDate("12/31/2023")
	assert.Error(t, err)
}
