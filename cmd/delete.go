package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/sterling/renderer"
	"github.com/google/subcommands"
)

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove a trade from the trade log" }
func (*deleteCmd) Usage() string {
	return `sterling delete <id>

  Removes the trade of that id. The deletion is refused if a later trade
  would no longer be admissible, e.g. deleting the deposit that funds a purchase.
  Use 'sterling tx' to list the trade ids.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: delete takes exactly one trade id")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	a, err := openLedger(ctx, false)
	if err != nil {
		return failure("Error loading ledger", err)
	}
	defer a.close()

	trade, _ := a.ledger.Trade(id)
	if err := a.ledger.DeleteTrade(id); err != nil {
		return failure("Error deleting trade", err)
	}
	if err := a.save(); err != nil {
		return failure("Error saving ledger", err)
	}

	fmt.Printf("Deleted %s: %s\n", id, renderer.Trade(trade))
	return subcommands.ExitSuccess
}
