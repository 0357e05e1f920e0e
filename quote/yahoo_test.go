package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chart(meta string) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":%s}],"error":null}}`, meta)
}

func TestYahoo_LastClosePrice(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		status  int
		want    string
		wantErr bool
	}{
		{"pence", chart(`{"currency":"GBp","regularMarketPrice":71.3,"previousClose":70.92}`), 200, "71.3", false},
		{"pounds are converted", chart(`{"currency":"GBP","regularMarketPrice":1.2345}`), 200, "123.45", false},
		{"falls back to previous close", chart(`{"currency":"GBp","previousClose":70.92}`), 200, "70.92", false},
		{"zero price falls back", chart(`{"currency":"GBp","regularMarketPrice":0,"previousClose":70.92}`), 200, "70.92", false},
		{"no price", chart(`{"currency":"GBp"}`), 200, "", true},
		{"not sterling", chart(`{"currency":"USD","regularMarketPrice":10}`), 200, "", true},
		{"empty result", `{"chart":{"result":[],"error":null}}`, 200, "", true},
		{"not found", `{"chart":{"result":null,"error":{"code":"Not Found"}}}`, 404, "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				assert.Equal(t, "1d", r.URL.Query().Get("interval"))
				assert.NotEmpty(t, r.Header.Get("User-Agent"))
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			y := NewYahoo(srv.URL+"/", ".L", srv.Client(), zerolog.Nop())
			got, err := y.LastClosePrice(context.Background(), "VOD")
			assert.Equal(t, "/v8/finance/chart/VOD.L", gotPath)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %v, want %v", got, tc.want)
		})
	}
}

func TestYahoo_NoQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chart(`{"currency":"GBp"}`))
	}))
	defer srv.Close()

	_, err := NewYahoo(srv.URL, "", nil, zerolog.Nop()).LastClosePrice(context.Background(), "VOD")
	assert.True(t, errors.Is(err, ErrNoQuote))
}

func TestYahoo_Context(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewYahoo(srv.URL, "", srv.Client(), zerolog.Nop()).LastClosePrice(ctx, "VOD")
	assert.ErrorIs(t, err, context.Canceled)
}
