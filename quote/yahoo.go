package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/sterling/refresh"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultYahooURL is the base URL of the Yahoo Finance chart API.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

var _ refresh.PriceSource = (*Yahoo)(nil)

// Yahoo reads last close prices from the Yahoo Finance chart API.
//
// London quotes are listed in pence ("GBp"); a quote in pounds ("GBP") is
// converted to pence.
type Yahoo struct {
	baseURL string
	suffix  string
	client  *http.Client
	log     zerolog.Logger
}

// NewYahoo returns a Yahoo source. suffix is appended to every symbol, ".L"
// for the London Stock Exchange. A nil client uses http.DefaultClient.
func NewYahoo(baseURL, suffix string, client *http.Client, log zerolog.Logger) *Yahoo {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Yahoo{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		suffix:  suffix,
		client:  client,
		log:     log.With().Str("component", "quote").Str("source", "yahoo").Logger(),
	}
}

/*
	{
	  "chart": {
	    "result": [
	      {
	        "meta": {
	          "currency": "GBp",
	          "symbol": "VOD.L",
	          "regularMarketPrice": 71.3,
	          "previousClose": 70.92
	        }
	      }
	    ],
	    "error": null
	  }
	}
*/
const (
	yahooPricePath    = "$.chart.result[0].meta.regularMarketPrice"
	yahooPreviousPath = "$.chart.result[0].meta.previousClose"
	yahooCurrencyPath = "$.chart.result[0].meta.currency"
)

// LastClosePrice implements refresh.PriceSource.
func (y *Yahoo) LastClosePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", y.baseURL, url.PathEscape(symbol+y.suffix))

	var jobj any
	if err := jwget(ctx, y.client, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}

	price, err := number(jobj, yahooPricePath)
	if err != nil {
		y.log.Debug().Err(err).Str("symbol", symbol).Msg("no market price, falling back to previous close")
		if price, err = number(jobj, yahooPreviousPath); err != nil {
			return decimal.Zero, fmt.Errorf("%w for %q: %w", ErrNoQuote, symbol, err)
		}
	}

	currency, _ := jsonpath.Get(yahooCurrencyPath, jobj)
	switch currency {
	case "GBP":
		price = price.Mul(decimal.NewFromInt(100))
	case "GBp", "GBX", nil:
	default:
		return decimal.Zero, fmt.Errorf("%q is quoted in %v, not sterling", symbol, currency)
	}
	return price, nil
}

// number reads a positive number at path in jobj.
func number(jobj any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %w", path, err)
	}
	// jsonpath may return a list of one answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return decimal.Zero, fmt.Errorf("error parsing %q: not a price: %v", path, jval)
	}
	return decimal.NewFromFloat(val), nil
}
