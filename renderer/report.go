package renderer

import (
	"github.com/etnz/sterling"
)

// NotAvailable is displayed for values that need a price not refreshed yet.
const NotAvailable = "n/a"

// Report is the view of a ledger state used by the templates. Every value is
// already formatted.
type Report struct {
	Name     string
	Unsaved  bool
	Holdings []HoldingRow

	CashAvailable string
	CashDeposited string

	HoldingsCost      string
	HoldingsValue     string
	TotalValue        string
	ProfitLoss        string
	ProfitLossPercent string
	OpenProfitLoss    string

	// Stale is true when at least one holding has no current price.
	Stale bool
}

// HoldingRow is one line of the holdings table.
type HoldingRow struct {
	Symbol            string
	Quantity          string
	OpenPrice         string
	LastPrice         string
	Cost              string
	Value             string
	ProfitLoss        string
	ProfitLossPercent string
	Weight            string
}

// NewReport formats s.
func NewReport(s sterling.State) *Report {
	r := &Report{
		Name:          s.Name,
		Unsaved:       s.Unsaved,
		CashAvailable: s.CashAvailable.String(),
		CashDeposited: s.CashDeposited.String(),
	}

	weights, _ := s.Weights()
	for _, h := range s.Holdings {
		row := HoldingRow{
			Symbol:            h.Symbol,
			Quantity:          h.Quantity.String(),
			OpenPrice:         NotAvailable,
			LastPrice:         NotAvailable,
			Cost:              money(h.Cost()),
			Value:             money(h.Value()),
			ProfitLoss:        signed(h.ProfitLoss()),
			ProfitLossPercent: percent(h.ProfitLossPercent()),
			Weight:            NotAvailable,
		}
		if h.HasOpenPrice {
			row.OpenPrice = h.OpenPrice.String()
		}
		switch {
		case h.HasLastPrice && h.LastPriceValid:
			row.LastPrice = h.LastPrice.String()
		case h.HasLastPrice:
			row.LastPrice = h.LastPrice.String() + " (stale)"
			r.Stale = true
		default:
			r.Stale = true
		}
		if w, ok := weights[h.Symbol]; ok {
			row.Weight = w.String()
		}
		r.Holdings = append(r.Holdings, row)
	}

	r.HoldingsCost = money(s.HoldingsCost())
	r.HoldingsValue = money(s.HoldingsValue())
	r.TotalValue = money(s.TotalValue())
	r.ProfitLoss = signed(s.ProfitLoss())
	r.ProfitLossPercent = percent(s.ProfitLossPercent())
	if pl, err := s.OpenProfitLoss(); err == nil {
		r.OpenProfitLoss = pl.SignedString()
	} else {
		r.OpenProfitLoss = NotAvailable
	}
	return r
}

func money(m sterling.Money, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return m.String()
}

func signed(m sterling.Money, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return m.SignedString()
}

func percent(p sterling.Percent, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return p.SignedString()
}
