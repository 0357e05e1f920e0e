package sterling

import (
	"maps"
	"slices"
	"sort"
)

// Book is the account state obtained by replaying a trade log.
type Book struct {
	CashAvailable Money
	CashDeposited Money
	Holdings      map[string]*Holding
}

func newBook() *Book {
	return &Book{Holdings: make(map[string]*Holding)}
}

// Symbols returns the held symbols in alphabetical order.
func (b *Book) Symbols() []string {
	symbols := slices.Collect(maps.Keys(b.Holdings))
	slices.Sort(symbols)
	return symbols
}

// held returns the quantity held on symbol, zero if none.
func (b *Book) held(symbol string) Quantity {
	if h, ok := b.Holdings[symbol]; ok {
		return h.Quantity
	}
	return Quantity{}
}

// admit checks that t can apply on the current state of the book.
func (b *Book) admit(t Trade) error {
	switch t.action {
	case Withdraw, Fee:
		if t.quantity.Money().GreaterThan(b.CashAvailable) {
			return &InsufficientFundsError{Date: t.date, Action: t.action, Required: t.quantity.Money(), Available: b.CashAvailable}
		}
	case Buy:
		if required := t.total.Neg(); required.GreaterThan(b.CashAvailable) {
			return &InsufficientFundsError{Date: t.date, Action: t.action, Required: required, Available: b.CashAvailable}
		}
	case Sell:
		if held := b.held(t.symbol); t.quantity.GreaterThan(held) {
			return &InsufficientHoldingsError{Date: t.date, Symbol: t.symbol, Requested: t.quantity, Held: held}
		}
		// Fee and tax larger than the proceeds are paid from the cash.
		if required := t.total.Neg(); required.GreaterThan(b.CashAvailable) {
			return &InsufficientFundsError{Date: t.date, Action: t.action, Required: required, Available: b.CashAvailable}
		}
	}
	return nil
}

// apply books an admitted trade.
func (b *Book) apply(t Trade) {
	switch t.action {
	case Deposit:
		b.CashAvailable = b.CashAvailable.Add(t.total)
		b.CashDeposited = b.CashDeposited.Add(t.total)
	case Dividend:
		b.CashAvailable = b.CashAvailable.Add(t.total)
	case Withdraw:
		b.CashAvailable = b.CashAvailable.Sub(t.total)
		b.CashDeposited = b.CashDeposited.Sub(t.total)
	case Fee:
		b.CashAvailable = b.CashAvailable.Sub(t.total)
	case Buy:
		h, ok := b.Holdings[t.symbol]
		if !ok {
			h = &Holding{Symbol: t.symbol}
			b.Holdings[t.symbol] = h
		}
		h.Quantity = h.Quantity.Add(t.quantity)
		b.CashAvailable = b.CashAvailable.Add(t.total)
	case Sell:
		h := b.Holdings[t.symbol] // admitted, so it exists.
		h.Quantity = h.Quantity.Sub(t.quantity)
		if h.Quantity.LessThan(one) {
			delete(b.Holdings, t.symbol)
		}
		b.CashAvailable = b.CashAvailable.Add(t.total)
	}
}

var one = Q(1)

// Replay folds trades, in the given order, into a Book.
//
// Each trade is admitted against the state reached by the trades before it.
// The first rejected trade aborts the whole replay and its error is returned
// with no book.
func Replay(trades []Trade) (*Book, error) {
	b := newBook()
	for _, t := range trades {
		if err := b.admit(t); err != nil {
			return nil, err
		}
		b.apply(t)
	}
	return b, nil
}

// sortTrades sorts trades by date. The sort is stable, meaning trades on the
// same date maintain their original relative order.
func sortTrades(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].date.Before(trades[j].date)
	})
}

// insertTrade returns a new list with t inserted after every trade dated on
// or before t.
func insertTrade(trades []Trade, t Trade) []Trade {
	i := sort.Search(len(trades), func(i int) bool { return trades[i].date.After(t.date) })
	candidate := make([]Trade, 0, len(trades)+1)
	candidate = append(candidate, trades[:i]...)
	candidate = append(candidate, t)
	return append(candidate, trades[i:]...)
}

// removeTrade returns a new list without the trade of that id.
func removeTrade(trades []Trade, id string) ([]Trade, bool) {
	i := slices.IndexFunc(trades, func(t Trade) bool { return t.id == id })
	if i < 0 {
		return trades, false
	}
	candidate := make([]Trade, 0, len(trades)-1)
	candidate = append(candidate, trades[:i]...)
	return append(candidate, trades[i+1:]...), true
}

// duplicateID returns the first id found twice in trades.
func duplicateID(trades []Trade) (string, bool) {
	seen := make(map[string]bool, len(trades))
	for _, t := range trades {
		if seen[t.id] {
			return t.id, true
		}
		seen[t.id] = true
	}
	return "", false
}
