package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/sterling"
	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the trade log" }
func (*checkCmd) Usage() string {
	return `sterling check

  Reads the trade log and replays it from the start. Reports the first trade
  that is not admissible, if any.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure("Error loading configuration", err)
	}
	tl, err := sterling.LoadTradeLog(cfg.LedgerFile)
	if err != nil {
		return failure("Error loading ledger", err)
	}

	book, err := sterling.Replay(tl.Trades)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cfg.LedgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %d trades, %d open positions, cash available %v\n",
		cfg.LedgerFile, len(tl.Trades), len(book.Holdings), book.CashAvailable)
	return subcommands.ExitSuccess
}
