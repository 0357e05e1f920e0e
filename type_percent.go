package sterling

import (
	"math"

	"github.com/shopspring/decimal"
)

// Percent is a ratio in hundredths: 12.5 reads 12.50%.
type Percent float64

// percentTolerance is how far apart two percents may be and still be equal.
const percentTolerance = 1e-4

func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < percentTolerance
}

// cents returns p rounded half away from zero to two decimals.
func (p Percent) cents() decimal.Decimal {
	return decimal.NewFromFloat(float64(p)).Round(2)
}

func (p Percent) String() string {
	return p.cents().StringFixed(2) + "%"
}

// SignedString always shows the sign, e.g. "+3.20%". A percent that rounds
// to zero is "-".
func (p Percent) SignedString() string {
	c := p.cents()
	switch c.Sign() {
	case 0:
		return "-"
	case 1:
		return "+" + c.StringFixed(2) + "%"
	default:
		return c.StringFixed(2) + "%"
	}
}
