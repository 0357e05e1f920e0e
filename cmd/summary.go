package cmd

import (
	"context"
	"flag"

	"github.com/etnz/sterling/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	update bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio valuation" }
func (*summaryCmd) Usage() string {
	return `sterling summary [-u]

  Displays the cash, the market value and the profit or loss of the portfolio.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "refresh the prices before calculating the summary")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openLedger(ctx, false)
	if err != nil {
		return failure("Error loading ledger", err)
	}
	defer a.close()

	if c.update {
		a.refresh(ctx)
	}

	printMarkdown(renderer.RenderSummary(a.ledger.State()))
	return subcommands.ExitSuccess
}
