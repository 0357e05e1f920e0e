package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/sterling"
	"github.com/google/subcommands"
)

type initCmd struct {
	name  string
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create an empty trade log" }
func (*initCmd) Usage() string {
	return `sterling init [-name <name>] [-f]

  Creates an empty trade log at the configured location.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Portfolio name. Defaults to the configured name.")
	f.BoolVar(&c.force, "f", false, "Overwrite an existing trade log")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return failure("Error loading configuration", err)
	}
	name := c.name
	if name == "" {
		name = cfg.Name
	}

	if _, err := os.Stat(cfg.LedgerFile); err == nil && !c.force {
		fmt.Fprintf(os.Stderr, "Error: %q already exists, use -f to overwrite it\n", cfg.LedgerFile)
		return subcommands.ExitFailure
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return failure("Error checking the trade log", err)
	}

	if err := sterling.SaveTradeLog(cfg.LedgerFile, &sterling.TradeLog{Name: name}); err != nil {
		return failure("Error creating the trade log", err)
	}
	fmt.Printf("Created %s for %q\n", cfg.LedgerFile, name)
	return subcommands.ExitSuccess
}
