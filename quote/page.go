package quote

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/etnz/sterling/refresh"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var _ refresh.PriceSource = (*Page)(nil)

// Page scrapes prices from an HTML quote page.
type Page struct {
	url      string
	selector string
	client   *http.Client
	log      zerolog.Logger
}

// NewPage returns a source reading the text of the first element matching
// selector in the page at urlTemplate, where "%s" stands for the symbol.
func NewPage(urlTemplate, selector string, client *http.Client, log zerolog.Logger) (*Page, error) {
	if !strings.Contains(urlTemplate, "%s") {
		return nil, fmt.Errorf("page url %q has no %%s for the symbol", urlTemplate)
	}
	if selector == "" {
		return nil, fmt.Errorf("page selector is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Page{
		url:      urlTemplate,
		selector: selector,
		client:   client,
		log:      log.With().Str("component", "quote").Str("source", "page").Logger(),
	}, nil
}

// LastClosePrice implements refresh.PriceSource.
func (p *Page) LastClosePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	addr := strings.Replace(p.url, "%s", url.PathEscape(symbol), 1)
	body, err := get(ctx, p.client, addr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot parse page for %q: %w", symbol, err)
	}
	sel := doc.Find(p.selector).First()
	if sel.Length() == 0 {
		return decimal.Zero, fmt.Errorf("%w for %q: nothing matches %q", ErrNoQuote, symbol, p.selector)
	}
	text := sel.Text()
	p.log.Debug().Str("symbol", symbol).Str("text", text).Msg("quote scraped")
	return parsePence(text)
}

// parsePence reads a displayed price: "71.30p", "GBX 71.30" or "£0.7130".
// Pounds are converted to pence.
func parsePence(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	pounds := strings.Contains(s, "£") || strings.Contains(s, "GBP")
	for _, marker := range []string{"£", "GBP", "GBX", "GBp", "p", ",", " ", " "} {
		s = strings.ReplaceAll(s, marker, "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cannot read a price in %q", ErrNoQuote, text)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q is not a price", ErrNoQuote, text)
	}
	if pounds {
		d = d.Mul(decimal.NewFromInt(100))
	}
	return d, nil
}
