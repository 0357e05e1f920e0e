package sterling

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the layout of trade dates in the trade log and on the command line.
const DateLayout = "02/01/2006 15:04"

// ParseDate parses a "dd/mm/yyyy HH:MM" date. A date without time is read at
// midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("02/01/2006", s)
}

// FormatDate formats t with DateLayout.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// Now returns the current wall clock time truncated to the minute. Trade
// dates carry no time zone: they are stored as UTC wall clock values.
func Now() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, time.UTC)
}

// TradeRecord is the raw, textual form of a trade as it comes from the trade
// log or from user input. NewTrade coerces it into a Trade.
type TradeRecord struct {
	ID        string
	Date      string // "dd/mm/yyyy HH:MM", empty for now.
	Action    string
	Quantity  string
	Symbol    string
	Price     string // pence per unit
	Fee       string // pounds
	StampDuty string // percent of the cost
	Notes     string
}

// Trade is one immutable ledger event.
type Trade struct {
	id        string
	date      time.Time
	action    Action
	quantity  Quantity
	symbol    string
	price     Pence
	fee       Money
	stampDuty decimal.Decimal
	notes     string

	total Money // cash effect, computed once.
}

// NewTrade validates and coerces a record into a Trade.
//
// Cash actions ignore the symbol, price, fee and stamp duty fields; BUY and
// SELL require a symbol. Numeric fields left empty read as zero except the
// quantity that must be positive.
func NewTrade(r TradeRecord) (Trade, error) {
	var t Trade
	var err error

	if t.action, err = ParseAction(r.Action); err != nil {
		return Trade{}, &InvalidTradeError{Field: "action", Value: r.Action, Err: err}
	}

	t.id = strings.TrimSpace(r.ID)
	if t.id == "" {
		t.id = uuid.NewString()
	}

	if strings.TrimSpace(r.Date) == "" {
		t.date = Now()
	} else if t.date, err = ParseDate(r.Date); err != nil {
		return Trade{}, &InvalidTradeError{Field: "date", Value: r.Date, Err: err}
	}

	if t.quantity, err = ParseQuantity(r.Quantity); err != nil {
		return Trade{}, &InvalidTradeError{Field: "quantity", Value: r.Quantity, Err: err}
	}
	if !t.quantity.IsPositive() {
		return Trade{}, &InvalidTradeError{Field: "quantity", Value: r.Quantity, Err: errors.New("must be positive")}
	}
	t.notes = r.Notes

	if t.action.IsCash() {
		t.total = t.quantity.Money()
		return t, nil
	}

	if !t.quantity.value.IsInteger() {
		return Trade{}, &InvalidTradeError{Field: "quantity", Value: r.Quantity, Err: errors.New("must be a whole number of units for " + t.action.String())}
	}
	t.symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	if t.symbol == "" {
		return Trade{}, &InvalidTradeError{Field: "symbol", Value: r.Symbol, Err: errors.New("is required for " + t.action.String())}
	}
	if t.price, err = optionalPence(r.Price); err != nil || t.price.IsNegative() {
		return Trade{}, &InvalidTradeError{Field: "price", Value: r.Price, Err: orNegative(err)}
	}
	if t.fee, err = optionalMoney(r.Fee); err != nil || t.fee.IsNegative() {
		return Trade{}, &InvalidTradeError{Field: "fee", Value: r.Fee, Err: orNegative(err)}
	}
	if t.stampDuty, err = optionalDecimal(r.StampDuty); err != nil || t.stampDuty.IsNegative() {
		return Trade{}, &InvalidTradeError{Field: "stamp_duty", Value: r.StampDuty, Err: orNegative(err)}
	}

	// SELL is taxed with the same rate as BUY.
	cost := t.Cost()
	tax := cost.Percent(t.stampDuty)
	switch t.action {
	case Buy:
		t.total = cost.Add(t.fee).Add(tax).Neg()
	case Sell:
		t.total = cost.Sub(t.fee).Sub(tax)
	}
	return t, nil
}

// MustTrade is like NewTrade but panics on error. It is meant for tests and
// static data.
func MustTrade(r TradeRecord) Trade {
	t, err := NewTrade(r)
	if err != nil {
		panic(err)
	}
	return t
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(s)
}

func optionalPence(s string) (Pence, error) {
	d, err := optionalDecimal(s)
	return Pence{value: d}, err
}

func optionalMoney(s string) (Money, error) {
	d, err := optionalDecimal(s)
	return Money{value: d}, err
}

func orNegative(err error) error {
	if err != nil {
		return err
	}
	return errors.New("must not be negative")
}

func (t Trade) ID() string                 { return t.id }
func (t Trade) Date() time.Time            { return t.date }
func (t Trade) Action() Action             { return t.action }
func (t Trade) Quantity() Quantity         { return t.quantity }
func (t Trade) Symbol() string             { return t.symbol }
func (t Trade) Price() Pence               { return t.price }
func (t Trade) Fee() Money                 { return t.fee }
func (t Trade) StampDuty() decimal.Decimal { return t.stampDuty }
func (t Trade) Notes() string              { return t.notes }

// Total returns the signed cash effect of the trade for BUY and SELL, and the
// unsigned amount for cash actions: the fold decides whether a WITHDRAW or a
// FEE takes cash out.
func (t Trade) Total() Money { return t.total }

// Cost returns the notional cost, price times quantity, in pounds. It is zero
// for cash actions.
func (t Trade) Cost() Money { return t.price.Mul(t.quantity) }

// Tax returns the stamp duty charged on the cost.
func (t Trade) Tax() Money { return t.Cost().Percent(t.stampDuty) }

// Record returns the textual form of the trade, as persisted.
func (t Trade) Record() TradeRecord {
	r := TradeRecord{
		ID:       t.id,
		Date:     FormatDate(t.date),
		Action:   t.action.String(),
		Quantity: t.quantity.String(),
		Notes:    t.notes,
	}
	if !t.action.IsCash() {
		r.Symbol = t.symbol
		r.Price = t.price.Decimal().String()
		r.Fee = t.fee.Decimal().String()
		r.StampDuty = t.stampDuty.String()
	}
	return r
}

// Equal reports whether both trades have the same fields.
func (t Trade) Equal(o Trade) bool {
	return t.id == o.id &&
		t.date.Equal(o.date) &&
		t.action == o.action &&
		t.quantity.Equal(o.quantity) &&
		t.symbol == o.symbol &&
		t.price.Equal(o.price) &&
		t.fee.Equal(o.fee) &&
		t.stampDuty.Equal(o.stampDuty) &&
		t.notes == o.notes
}

// BySymbol returns a predicate that accepts trades on a given symbol.
func BySymbol(symbol string) func(Trade) bool {
	symbol = strings.ToUpper(symbol)
	return func(t Trade) bool { return t.symbol == symbol }
}

// ByAction returns a predicate that accepts trades of the given actions.
func ByAction(actions ...Action) func(Trade) bool {
	return func(t Trade) bool {
		for _, a := range actions {
			if t.action == a {
				return true
			}
		}
		return false
	}
}
