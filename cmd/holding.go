package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/sterling/renderer"
	"github.com/google/subcommands"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	update   bool
	skipCash bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the open positions" }
func (*holdingCmd) Usage() string {
	return `sterling holding [-u] [-no-cash]

  Displays the open positions and the cash of the portfolio. Prices are only
  known after a refresh: use -u to fetch them first.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "refresh the prices before calculating the report")
	f.BoolVar(&c.skipCash, "no-cash", false, "do not display the cash")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openLedger(ctx, false)
	if err != nil {
		return failure("Error loading ledger", err)
	}
	defer a.close()

	if c.update {
		a.refresh(ctx)
	}

	printMarkdown(renderer.RenderHoldings(a.ledger.State(), renderer.HoldingsRenderOptions{SkipCash: c.skipCash}))
	return subcommands.ExitSuccess
}

// refresh runs one price refresh cycle. A failed cycle is reported and the
// report is rendered with the prices that are known.
func (a *app) refresh(ctx context.Context) {
	// Symbols are fetched one after the other.
	n := len(a.ledger.State().Holdings) + 1
	ctx, cancel := context.WithTimeout(ctx, time.Duration(n)*a.cfg.Refresh.FetchTimeout)
	defer cancel()
	if err := a.ledger.RefreshNow(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: prices were not refreshed: %v\n", err)
	}
}
