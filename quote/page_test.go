package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_LastClosePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote/VOD":
			fmt.Fprint(w, `<html><body><div class="price"><span class="last">71.30p</span></div></body></html>`)
		case "/quote/AZN":
			fmt.Fprint(w, `<html><body><span class="last">£1,234.50</span><span class="last">0</span></body></html>`)
		case "/quote/BARC":
			fmt.Fprint(w, `<html><body><span class="other">1</span></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p, err := NewPage(srv.URL+"/quote/%s", "span.last", srv.Client(), zerolog.Nop())
	require.NoError(t, err)

	got, err := p.LastClosePrice(context.Background(), "VOD")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("71.3")))

	got, err = p.LastClosePrice(context.Background(), "AZN")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(123450)), "got %v", got)

	_, err = p.LastClosePrice(context.Background(), "BARC")
	assert.ErrorIs(t, err, ErrNoQuote)

	_, err = p.LastClosePrice(context.Background(), "LLOY")
	assert.ErrorContains(t, err, "404")
}

func TestNewPage(t *testing.T) {
	_, err := NewPage("https://example.com/quote", "span", nil, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewPage("https://example.com/quote/%s", "", nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestParsePence(t *testing.T) {
	testCases := []struct {
		text    string
		want    string
		wantErr bool
	}{
		{"71.30p", "71.3", false},
		{" GBX 1,071.5 ", "1071.5", false},
		{"£0.7130", "71.3", false},
		{"GBP 2", "200", false},
		{"n/a", "", true},
		{"0p", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := parsePence(tc.text)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrNoQuote)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %v", got)
		})
	}
}
