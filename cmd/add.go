package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/sterling"
	"github.com/etnz/sterling/renderer"
	"github.com/google/subcommands"
)

type addCmd struct {
	id     string
	date   string
	action string
	symbol string
	qty    string
	price  string
	fee    string
	sdr    string
	notes  string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a trade in the trade log" }
func (*addCmd) Usage() string {
	return `sterling add -action <action> -qty <quantity> [-date <date>] [-symbol <symbol> -price <pence>] [-fee <pounds>] [-sdr <percent>] [-notes <text>]

  Records a trade. The whole trade log is replayed with the new trade, which is
  only saved if every trade remains admissible: no withdrawal, fee or purchase
  beyond the cash available, no sale beyond the units held.

  Actions are BUY, SELL, DEPOSIT, WITHDRAW, DIVIDEND and FEE. For cash actions
  the quantity is the amount in pounds.

Usage Examples:
$ sterling add -action DEPOSIT -qty 1000
$ sterling add -date "02/01/2024 10:00" -action BUY -symbol VOD -qty 10 -price 100 -fee 1 -sdr 0.5
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Trade id. Generated if empty.")
	f.StringVar(&c.date, "date", "", "Trade date as dd/mm/yyyy HH:MM (UTC). Defaults to now.")
	f.StringVar(&c.action, "action", "", "Trade action: "+strings.Join(actionNames(), ", "))
	f.StringVar(&c.symbol, "symbol", "", "Security symbol for BUY and SELL")
	f.StringVar(&c.qty, "qty", "", "Number of units, or the amount in pounds for cash actions")
	f.StringVar(&c.price, "price", "", "Price per unit in pence")
	f.StringVar(&c.fee, "fee", "", "Broker fee in pounds")
	f.StringVar(&c.sdr, "sdr", "", "Stamp duty rate in percent of the cost")
	f.StringVar(&c.notes, "notes", "", "Free text notes")
}

func (c *addCmd) record() sterling.TradeRecord {
	return sterling.TradeRecord{
		ID:        c.id,
		Date:      c.date,
		Action:    c.action,
		Quantity:  c.qty,
		Symbol:    c.symbol,
		Price:     c.price,
		Fee:       c.fee,
		StampDuty: c.sdr,
		Notes:     c.notes,
	}
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trade, err := sterling.NewTrade(c.record())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := openLedger(ctx, false)
	if err != nil {
		return failure("Error loading ledger", err)
	}
	defer a.close()

	if err := a.ledger.AddTrade(trade); err != nil {
		var funds *sterling.InsufficientFundsError
		var holdings *sterling.InsufficientHoldingsError
		if errors.As(err, &funds) || errors.As(err, &holdings) {
			return failure("Trade rejected", err)
		}
		return failure("Error adding trade", err)
	}
	if err := a.save(); err != nil {
		return failure("Error saving ledger", err)
	}

	fmt.Printf("Added %s: %s\n", trade.ID(), renderer.Trade(trade))
	return subcommands.ExitSuccess
}

func actionNames() []string {
	names := make([]string, len(sterling.Actions))
	for i, a := range sterling.Actions {
		names[i] = a.String()
	}
	return names
}
