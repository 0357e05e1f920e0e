package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/sterling"
	"github.com/etnz/sterling/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	symbol string
	action string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the trades in the trade log" }
func (*txCmd) Usage() string {
	return `sterling tx [-symbol <symbol>] [-action <actions>] [-head <n>] [-tail <n>]

  Lists the trades in chronological order, with options for filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.symbol, "symbol", "", "Only list trades on this symbol")
	f.StringVar(&p.action, "action", "", "Only list trades of these comma separated actions")
	f.IntVar(&p.head, "head", 0, "Show only the first N trades.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N trades.")
}

// filters returns the trade filters selected by the flags. A trade must pass
// all of them.
func (p *txCmd) filters() ([]func(sterling.Trade) bool, error) {
	var filters []func(sterling.Trade) bool
	if p.symbol != "" {
		filters = append(filters, sterling.BySymbol(p.symbol))
	}
	if p.action != "" {
		var actions []sterling.Action
		for _, s := range strings.Split(p.action, ",") {
			a, err := sterling.ParseAction(s)
			if err != nil {
				return nil, err
			}
			actions = append(actions, a)
		}
		filters = append(filters, sterling.ByAction(actions...))
	}
	return filters, nil
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	filters, err := p.filters()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := openLedger(ctx, false)
	if err != nil {
		return failure("Error loading ledger", err)
	}
	defer a.close()

	var trades []sterling.Trade
	for _, t := range a.ledger.Trades() {
		if matchAll(t, filters) {
			trades = append(trades, t)
		}
	}

	if p.head > 0 && len(trades) > p.head {
		trades = trades[:p.head]
	}
	if p.tail > 0 && len(trades) > p.tail {
		trades = trades[len(trades)-p.tail:]
	}

	printMarkdown(renderer.RenderTrades(a.ledger.Name()+" trades", trades))
	return subcommands.ExitSuccess
}

func matchAll(t sterling.Trade, filters []func(sterling.Trade) bool) bool {
	for _, f := range filters {
		if !f(t) {
			return false
		}
	}
	return true
}
