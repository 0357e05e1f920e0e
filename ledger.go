package sterling

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/etnz/sterling/refresh"
	"github.com/rs/zerolog"
)

// Ledger is the portfolio engine. It owns the trade log and the account state
// derived from it, and coordinates the price refresh worker.
//
// In a Ledger trades are always in chronological order. Every mutation of the
// trade log is first replayed in full on a candidate list; only a candidate
// that passes admission control for its entire history is committed. The
// state is then rebuilt from scratch, never patched.
//
// All methods are safe for concurrent use.
type Ledger struct {
	log    zerolog.Logger
	worker *refresh.Worker

	mu              sync.Mutex
	name            string
	trades          []Trade
	book            *Book
	unsaved         bool
	priceGeneration uint64
	autoRefresh     bool
	onChange        []func(State)
}

// NewLedger creates an empty ledger named name, whose holdings are priced by
// source.
func NewLedger(name string, source refresh.PriceSource, cfg refresh.Config, log zerolog.Logger) (*Ledger, error) {
	l := &Ledger{
		log:         log.With().Str("component", "ledger").Str("portfolio", name).Logger(),
		name:        name,
		book:        newBook(),
		autoRefresh: cfg.AutoRefresh,
	}
	w, err := refresh.New(source, cfg, l.applySnapshot, log)
	if err != nil {
		return nil, err
	}
	l.worker = w
	return l, nil
}

// Name returns the portfolio display name.
func (l *Ledger) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

// Start loads the initial trades and starts the refresh worker. The trades
// are sorted by date and must pass admission control; otherwise nothing is
// loaded and the worker is not started.
func (l *Ledger) Start(ctx context.Context, trades []Trade) error {
	if id, dup := duplicateID(trades); dup {
		return fmt.Errorf("cannot load trades: %s: %w", id, ErrDuplicateTrade)
	}
	candidate := slices.Clone(trades)
	sortTrades(candidate)

	l.mu.Lock()
	err := l.commit(candidate)
	l.unsaved = false // the initial load is what is on disk.
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("cannot load trades: %w", err)
	}

	l.worker.Start(ctx)
	l.kick()
	l.log.Info().Int("trades", len(candidate)).Msg("ledger started")
	return nil
}

// Stop shuts the refresh worker down and waits until it has fully stopped.
func (l *Ledger) Stop() {
	l.worker.Shutdown()
}

// AddTrade inserts t after every trade dated on or before it, replays the
// whole log and commits it if every trade remains admissible.
func (l *Ledger) AddTrade(t Trade) error {
	l.mu.Lock()
	err := l.add(t)
	l.mu.Unlock()
	if err != nil {
		l.log.Warn().Err(err).Str("trade", t.id).Str("action", t.action.String()).Msg("trade rejected")
		return err
	}
	l.log.Info().Str("trade", t.id).Str("action", t.action.String()).Str("symbol", t.symbol).Msg("trade added")
	l.kick()
	return nil
}

func (l *Ledger) add(t Trade) error {
	if slices.ContainsFunc(l.trades, func(o Trade) bool { return o.id == t.id }) {
		return fmt.Errorf("cannot add %s: %w", t.id, ErrDuplicateTrade)
	}
	return l.commit(insertTrade(l.trades, t))
}

// DeleteTrade removes the trade of that id, replays the whole log and commits
// it if every remaining trade is still admissible.
func (l *Ledger) DeleteTrade(id string) error {
	l.mu.Lock()
	err := l.delete(id)
	l.mu.Unlock()
	if err != nil {
		l.log.Warn().Err(err).Str("trade", id).Msg("deletion rejected")
		return err
	}
	l.log.Info().Str("trade", id).Msg("trade deleted")
	l.kick()
	return nil
}

func (l *Ledger) delete(id string) error {
	candidate, ok := removeTrade(l.trades, id)
	if !ok {
		return fmt.Errorf("cannot delete %s: %w", id, ErrTradeNotFound)
	}
	return l.commit(candidate)
}

// Reload rebuilds the state from the committed trade log.
func (l *Ledger) Reload() error {
	l.mu.Lock()
	book, err := Replay(l.trades)
	if err == nil {
		l.reload(book)
	}
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.kick()
	return nil
}

// kick cuts the worker's wait short after a reload, so that prices of the
// new symbol set come back without waiting for the next tick. It must be
// called without l.mu held: the worker may be blocked delivering a snapshot.
func (l *Ledger) kick() {
	if l.AutoRefresh() {
		l.worker.CancelWait()
	}
}

// commit validates candidate and makes it the trade log. It must be called
// with l.mu held.
func (l *Ledger) commit(candidate []Trade) error {
	if _, err := Replay(candidate); err != nil {
		return err
	}
	// Validation passed; replay again, this time keeping the result.
	book, err := Replay(candidate)
	if err != nil {
		return err
	}
	l.trades = candidate
	l.unsaved = true
	l.reload(book)
	return nil
}

// reload installs book as the live state: the worker starts a new generation
// on the new symbol set and open prices are recomputed. It must be called
// with l.mu held.
func (l *Ledger) reload(book *Book) {
	symbols := book.Symbols()
	l.priceGeneration = l.worker.ResetSymbols(symbols)

	for _, symbol := range symbols {
		h := book.Holdings[symbol]
		// The last known price survives the replay, marked stale until the
		// next refresh.
		if old, ok := l.book.Holdings[symbol]; ok && old.HasLastPrice {
			h.LastPrice, h.HasLastPrice = old.LastPrice, true
		}
		h.invalidatePrice()
		h.OpenPrice, h.HasOpenPrice = averageCost(l.trades, symbol, h.Quantity)
	}
	l.book = book
}

// applySnapshot copies refreshed prices into the matching holdings. It runs
// on the worker goroutine. Holdings missing from the snapshot keep their
// previous price.
func (l *Ledger) applySnapshot(snap refresh.Snapshot) {
	l.mu.Lock()
	if snap.Generation != l.priceGeneration {
		l.mu.Unlock()
		return
	}
	for symbol, p := range snap.Prices {
		if h, ok := l.book.Holdings[symbol]; ok {
			h.setPrice(Pence{value: p})
		}
	}
	state := l.state()
	observers := slices.Clone(l.onChange)
	l.mu.Unlock()

	for _, f := range observers {
		f(state)
	}
}

// OnChange registers f to be called with the new state after each refresh
// cycle applied prices to the ledger. f runs on the worker goroutine.
func (l *Ledger) OnChange(f func(State)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, f)
}

// SetAutoRefresh enables or pauses the scheduled price refresh.
func (l *Ledger) SetAutoRefresh(enabled bool) {
	l.mu.Lock()
	l.autoRefresh = enabled
	l.mu.Unlock()
	l.worker.SetEnabled(enabled)
}

// AutoRefresh reports whether the scheduled price refresh is enabled.
func (l *Ledger) AutoRefresh() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.autoRefresh
}

// ManualRefresh asks the worker to run one refresh cycle now, without
// changing whether auto refresh is enabled. It does not wait for the cycle.
func (l *Ledger) ManualRefresh() {
	l.worker.RunOnce()
}

// RefreshNow runs one refresh cycle and waits until its prices are applied or
// ctx is done.
func (l *Ledger) RefreshNow(ctx context.Context) error {
	return l.worker.Refresh(ctx)
}

// Save writes the committed trade log to path and clears the unsaved flag.
func (l *Ledger) Save(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tl := &TradeLog{Name: l.name, Trades: slices.Clone(l.trades)}
	if err := SaveTradeLog(path, tl); err != nil {
		return err
	}
	l.unsaved = false
	l.log.Info().Str("path", path).Int("trades", len(l.trades)).Msg("trade log saved")
	return nil
}

// Unsaved reports whether a mutation was committed since the last save.
func (l *Ledger) Unsaved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unsaved
}

// State returns a copy of the current account state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state()
}

func (l *Ledger) state() State {
	s := State{
		Name:          l.name,
		CashAvailable: l.book.CashAvailable,
		CashDeposited: l.book.CashDeposited,
		Unsaved:       l.unsaved,
	}
	for _, symbol := range l.book.Symbols() {
		s.Holdings = append(s.Holdings, *l.book.Holdings[symbol])
	}
	return s
}

// Trades returns an iterator over the committed trades, in chronological
// order. With filters, only trades accepted by at least one filter are
// yielded.
func (l *Ledger) Trades(filters ...func(Trade) bool) iter.Seq2[int, Trade] {
	l.mu.Lock()
	trades := l.trades // committed lists are never modified in place.
	l.mu.Unlock()
	return func(yield func(int, Trade) bool) {
		for i, t := range trades {
			if len(filters) > 0 && !slices.ContainsFunc(filters, func(f func(Trade) bool) bool { return f(t) }) {
				continue
			}
			if !yield(i, t) {
				return
			}
		}
	}
}

// Trade returns the trade of that id.
func (l *Ledger) Trade(id string) (Trade, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.trades, func(t Trade) bool { return t.id == id })
	if i < 0 {
		return Trade{}, false
	}
	return l.trades[i], true
}

// Len returns the number of committed trades.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trades)
}
