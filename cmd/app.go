// Package cmd implements the CLI application to track a sterling portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/etnz/sterling"
	"github.com/etnz/sterling/config"
	"github.com/etnz/sterling/logger"
	"github.com/etnz/sterling/quote"
	"github.com/etnz/sterling/refresh"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "trades")
	c.Register(&addCmd{}, "trades")
	c.Register(&deleteCmd{}, "trades")
	c.Register(&txCmd{}, "trades")
	c.Register(&checkCmd{}, "trades")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&watchCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file")
var ledgerFile = flag.String("ledger-file", "", "Path to the trade log file. Overrides the configuration.")

// loadConfig reads the configuration selected by the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	return cfg, nil
}

// newLogger returns the application logger. Logs go to stderr so that they
// never mix with the reports.
func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
}

// newPriceSource builds the configured price source, behind a cache.
func newPriceSource(cfg *config.Config, log zerolog.Logger) (refresh.PriceSource, error) {
	client := &http.Client{}
	var src refresh.PriceSource
	switch cfg.Prices.Source {
	case config.SourceYahoo:
		src = quote.NewYahoo(cfg.Prices.Yahoo.BaseURL, cfg.Prices.Yahoo.Suffix, client, log)
	case config.SourcePage:
		p, err := quote.NewPage(cfg.Prices.Page.URL, cfg.Prices.Page.Selector, client, log)
		if err != nil {
			return nil, err
		}
		src = p
	case config.SourceStatic:
		src = quote.NewStatic(cfg.Prices.Static)
	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.Prices.Source)
	}
	if cfg.Prices.CacheTTL > 0 {
		src = quote.NewCache(src, cfg.Prices.CacheTTL)
	}
	return src, nil
}

// app is what a subcommand needs to work on the trade log.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	ledger *sterling.Ledger
}

// openLedger loads the configured trade log into a started ledger. The caller
// must Stop it. Auto refresh is only enabled when autoRefresh is true and the
// configuration allows it.
func openLedger(ctx context.Context, autoRefresh bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	tl, err := sterling.LoadTradeLog(cfg.LedgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w\nrun 'sterling init' to create it", err)
	}
	if err != nil {
		return nil, err
	}

	src, err := newPriceSource(cfg, log)
	if err != nil {
		return nil, err
	}
	rcfg := refresh.Config{
		Schedule:     cfg.Refresh.Schedule,
		FetchTimeout: cfg.Refresh.FetchTimeout,
		AutoRefresh:  autoRefresh && cfg.Refresh.AutoRefresh,
	}
	ledger, err := sterling.NewLedger(tl.Name, src, rcfg, log)
	if err != nil {
		return nil, err
	}
	if err := ledger.Start(ctx, tl.Trades); err != nil {
		ledger.Stop()
		return nil, err
	}
	return &app{cfg: cfg, log: log, ledger: ledger}, nil
}

// save writes the ledger back to the configured trade log.
func (a *app) save() error {
	return a.ledger.Save(a.cfg.LedgerFile)
}

// close stops the ledger.
func (a *app) close() {
	a.ledger.Stop()
}

// failure reports err on stderr and returns the failure status.
func failure(format string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+": %v\n", err)
	return subcommands.ExitFailure
}
