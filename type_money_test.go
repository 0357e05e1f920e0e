package sterling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m          Money
		want       string
		wantSigned string
	}{
		{M(988.95), "£988.95", "+£988.95"},
		{M(-12.5), "-£12.50", "-£12.50"},
		{M(1234.567), "£1,234.57", "+£1,234.57"},
		{M(0), "£0.00", "-"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.m.String())
			assert.Equal(t, tc.wantSigned, tc.m.SignedString())
		})
	}
}

func TestPence_Mul(t *testing.T) {
	assert.True(t, P(100).Mul(Q(10)).Equal(M(10)))
	assert.True(t, P(12.5).Mul(Q(4)).Equal(M(0.5)))
}

func TestMoney_Percent(t *testing.T) {
	assert.True(t, M(10).Percent(newDecimal(0.5)).Equal(M(0.05)))
	assert.True(t, M(50).Ratio(M(200)).Equal(25))
}

func TestParseQuantity(t *testing.T) {
	q, err := ParseQuantity(" 1,000.5 ")
	assert.NoError(t, err)
	assert.True(t, q.Equal(Q(1000.5)))

	_, err = ParseQuantity("")
	assert.Error(t, err)
	_, err = ParseQuantity("ten")
	assert.Error(t, err)
}
