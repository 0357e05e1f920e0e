package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/sterling"
	"github.com/etnz/sterling/renderer"
	"github.com/google/subcommands"
)

type watchCmd struct {
	holdings bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh the prices on schedule and print the valuation" }
func (*watchCmd) Usage() string {
	return `sterling watch [-holdings]

  Refreshes the prices on the configured schedule and prints the summary
  after each refresh, until interrupted. With refresh.auto_refresh set to
  false the prices are refreshed once.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.holdings, "holdings", false, "print the holdings instead of the summary")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openLedger(ctx, true)
	if err != nil {
		return failure("Error loading ledger", err)
	}
	defer a.close()

	a.ledger.OnChange(func(s sterling.State) {
		if c.holdings {
			printMarkdown(renderer.RenderHoldings(s, renderer.HoldingsRenderOptions{}))
		} else {
			printMarkdown(renderer.RenderSummary(s))
		}
		fmt.Println()
	})
	// The ledger is started before the observer is registered: run the first
	// cycle now rather than on the next tick.
	a.ledger.ManualRefresh()
	if a.ledger.AutoRefresh() {
		a.log.Info().Str("schedule", a.cfg.Refresh.Schedule).Msg("watching prices")
	} else {
		a.log.Warn().Msg("auto refresh is disabled, prices are refreshed once")
	}

	<-ctx.Done()
	return subcommands.ExitSuccess
}
