package sterling

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// parseDecimal reads a decimal number, tolerating surrounding spaces and
// thousands separators.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	return decimal.NewFromString(s)
}

// Quantity is a number of units: shares for BUY and SELL, currency units for
// cash actions.
type Quantity struct {
	value decimal.Decimal
}

func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity parses a decimal string into a Quantity.
func ParseQuantity(s string) (Quantity, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: d}, nil
}

func (t Quantity) Equal(p Quantity) bool           { return t.value.Equal(p.value) }
func (t Quantity) LessThan(quantity Quantity) bool { return t.value.LessThan(quantity.value) }
func (t Quantity) Add(p Quantity) Quantity         { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity         { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) GreaterThan(p Quantity) bool     { return t.value.GreaterThan(p.value) }
func (t Quantity) IsNegative() bool                { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool                { return t.value.IsPositive() }
func (t Quantity) IsZero() bool                    { return t.value.IsZero() }
func (t Quantity) Decimal() decimal.Decimal        { return t.value }
func (t Quantity) String() string                  { return t.value.String() }

// Money returns the quantity read as an amount of pounds. Cash actions carry
// their amount in the quantity field.
func (t Quantity) Money() Money { return Money{value: t.value} }

// MarshalJSON implements the json.Marshaler interface for Quantity.
func (t Quantity) MarshalJSON() ([]byte, error) {
	return t.value.MarshalJSON()
}

func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}

// Pence is a price per unit expressed in pence, the minor unit of sterling.
type Pence struct {
	value decimal.Decimal
}

func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Pence {
	return Pence{value: newDecimal(value)}
}

// ParsePence parses a decimal string into a price in pence.
func ParsePence(s string) (Pence, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Pence{}, err
	}
	return Pence{value: d}, nil
}

func (p Pence) Equal(q Pence) bool       { return p.value.Equal(q.value) }
func (p Pence) IsNegative() bool         { return p.value.IsNegative() }
func (p Pence) IsZero() bool             { return p.value.IsZero() }
func (p Pence) Decimal() decimal.Decimal { return p.value }
func (p Pence) String() string           { return p.value.String() + "p" }

// Mul returns the cost of q units at this price, in pounds.
func (p Pence) Mul(q Quantity) Money {
	return Money{value: p.value.Mul(q.value).Div(hundred)}
}

func (p Pence) MarshalJSON() ([]byte, error) {
	return p.value.MarshalJSON()
}

func (p *Pence) UnmarshalJSON(decimalBytes []byte) error {
	return p.value.UnmarshalJSON(decimalBytes)
}

var hundred = decimal.NewFromInt(100)
