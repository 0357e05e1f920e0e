// Package renderer turns the ledger state into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/sterling"
)

//go:embed *.md
var templates embed.FS

// HoldingsRenderOptions holds configuration for rendering the holdings report.
type HoldingsRenderOptions struct {
	SkipCash bool // Do not render the cash section.
}

// RenderHoldings renders the open positions of s to a markdown string.
func RenderHoldings(s sterling.State, opts HoldingsRenderOptions) string {
	partials := map[string]string{
		"holdings_table": "holdings_table.md",
		"holdings_cash":  "holdings_cash.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipCash {
		partials["holdings_cash"] = ""
	}
	return renderTemplate("holdings", "holdings.md", partials, NewReport(s))
}

// RenderSummary renders the valuation of s to a markdown string.
func RenderSummary(s sterling.State) string {
	partials := map[string]string{
		"summary_cash":  "holdings_cash.md",
		"summary_value": "summary_value.md",
	}
	return renderTemplate("summary", "summary.md", partials, NewReport(s))
}

// RenderTrades renders a list of trades to a markdown string.
func RenderTrades(title string, trades []sterling.Trade) string {
	data := struct {
		Title  string
		Trades []TradeRow
	}{Title: title}
	for _, t := range trades {
		data.Trades = append(data.Trades, NewTradeRow(t))
	}
	return renderTemplate("trades", "trades.md", nil, data)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

var funcs = template.FuncMap{
	// cell escapes a value for a markdown table cell.
	"cell": func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
}
