package sterling

import "github.com/shopspring/decimal"

// averageCost computes the average open price, in pence, of the held
// quantity of symbol.
//
// BUY trades are scanned from the most recent backwards until their
// accumulated quantity reaches held. The oldest scanned BUY is counted in
// full even when it overshoots held. The result is rounded to 4 decimal
// places. It returns false when no BUY matches.
func averageCost(trades []Trade, symbol string, held Quantity) (Pence, bool) {
	var spent, bought decimal.Decimal
	for i := len(trades) - 1; i >= 0 && bought.LessThan(held.value); i-- {
		t := trades[i]
		if t.action != Buy || t.symbol != symbol {
			continue
		}
		spent = spent.Add(t.price.value.Mul(t.quantity.value))
		bought = bought.Add(t.quantity.value)
	}
	if bought.IsZero() {
		return Pence{}, false
	}
	return Pence{value: spent.Div(bought).Round(4)}, true
}
