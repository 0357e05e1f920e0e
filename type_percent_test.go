package sterling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent_String(t *testing.T) {
	testCases := []struct {
		p          Percent
		want       string
		wantSigned string
	}{
		{p: 10, want: "10.00%", wantSigned: "+10.00%"},
		{p: -15, want: "-15.00%", wantSigned: "-15.00%"},
		{p: 12.345, want: "12.35%", wantSigned: "+12.35%"},
		{p: 0, want: "0.00%", wantSigned: "-"},
		{p: -0.004, want: "0.00%", wantSigned: "-"},
		{p: 0.006, want: "0.01%", wantSigned: "+0.01%"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.String())
			assert.Equal(t, tc.wantSigned, tc.p.SignedString())
		})
	}
}

func TestPercent_Equal(t *testing.T) {
	assert.True(t, Percent(20).Equal(20.00001))
	assert.False(t, Percent(20).Equal(20.01))
}
