package renderer

import (
	"fmt"

	"github.com/etnz/sterling"
)

// TradeRow is one line of the trades table.
type TradeRow struct {
	ID          string
	Date        string
	Action      string
	Description string
	Total       string
	Notes       string
}

// NewTradeRow formats t.
func NewTradeRow(t sterling.Trade) TradeRow {
	total := t.Total()
	switch t.Action() {
	case sterling.Withdraw, sterling.Fee:
		total = total.Neg()
	}
	return TradeRow{
		ID:          t.ID(),
		Date:        sterling.FormatDate(t.Date()),
		Action:      t.Action().String(),
		Description: Trade(t),
		Total:       total.SignedString(),
		Notes:       t.Notes(),
	}
}

// Trade renders a trade to a string.
func Trade(t sterling.Trade) string {
	switch t.Action() {
	case sterling.Buy:
		return fmt.Sprintf("Bought %v of %s at %v", t.Quantity(), t.Symbol(), t.Price())
	case sterling.Sell:
		return fmt.Sprintf("Sold %v of %s at %v", t.Quantity(), t.Symbol(), t.Price())
	case sterling.Dividend:
		return fmt.Sprintf("Dividend of %v", t.Total())
	case sterling.Deposit:
		return fmt.Sprintf("Deposited %v", t.Total())
	case sterling.Withdraw:
		return fmt.Sprintf("Withdrew %v", t.Total())
	case sterling.Fee:
		return fmt.Sprintf("Fee of %v", t.Total())
	default:
		return t.Action().String()
	}
}
