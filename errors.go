package sterling

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTradeNotFound is returned when a trade id is not in the log.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrDuplicateTrade is returned when two trades share an id.
	ErrDuplicateTrade = errors.New("duplicate trade id")
	// ErrFormat is returned when a trade log cannot be decoded.
	ErrFormat = errors.New("invalid trade log format")
	// ErrPriceUnavailable is returned when a valuation needs a price that has
	// not been refreshed yet.
	ErrPriceUnavailable = errors.New("price unavailable")
)

// InvalidTradeError reports a trade record that cannot be turned into a Trade.
type InvalidTradeError struct {
	Field string // Field is the record field at fault, e.g. "action".
	Value string // Value is the offending input.
	Err   error
}

func (e *InvalidTradeError) Error() string {
	return fmt.Sprintf("invalid trade: %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InvalidTradeError) Unwrap() error { return e.Err }

// InsufficientFundsError reports a WITHDRAW, FEE or BUY that costs more than
// the cash available when it applies.
type InsufficientFundsError struct {
	Date      time.Time
	Action    Action
	Required  Money
	Available Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("on %s, cannot %s for %s: cash available is %s",
		FormatDate(e.Date), e.Action, e.Required, e.Available)
}

// InsufficientHoldingsError reports a SELL of more units than are held when
// it applies.
type InsufficientHoldingsError struct {
	Date      time.Time
	Symbol    string
	Requested Quantity
	Held      Quantity
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("on %s, cannot sell %v of %s: holding is only %v",
		FormatDate(e.Date), e.Requested, e.Symbol, e.Held)
}

// LoadError reports a trade log that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("cannot load %q: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a trade log that could not be written.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("cannot save %q: %v", e.Path, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }
