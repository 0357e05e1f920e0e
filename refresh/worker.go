package refresh

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config holds the worker settings.
type Config struct {
	// Schedule is a cron spec for the refresh cycles, e.g. "@every 5m" or
	// "*/15 8-17 * * MON-FRI".
	Schedule string
	// FetchTimeout bounds each call to the price source.
	FetchTimeout time.Duration
	// AutoRefresh is the initial enabled state.
	AutoRefresh bool
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Schedule:     "@every 5m",
		FetchTimeout: 10 * time.Second,
		AutoRefresh:  true,
	}
}

// State is the state of the worker loop.
type State int

const (
	// Paused waits for a command; no cycle runs on schedule.
	Paused State = iota
	// Running runs a cycle at every tick of the schedule.
	Running
	// ShuttingDown is terminal.
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

type command int

const (
	cmdPause command = iota
	cmdResume
	cmdRunOnce
	cmdCancelWait
)

func (c command) String() string {
	return [...]string{"pause", "resume", "run-once", "cancel-wait"}[c]
}

// request is a command posted to the loop. done, if not nil, is closed once
// the command has been handled.
type request struct {
	cmd  command
	done chan struct{}
}

// ErrStopped is returned when waiting on a worker that is not running.
var ErrStopped = errors.New("refresh: worker is not running")

// Worker periodically fetches prices for a set of symbols.
//
// All cycles run on the worker goroutine; the methods only post commands to
// it, or read and write the symbol set and snapshot under a mutex.
type Worker struct {
	source     PriceSource
	schedule   cron.Schedule
	timeout    time.Duration
	onSnapshot func(Snapshot)
	log        zerolog.Logger
	now        func() time.Time

	control chan request
	done    chan struct{}
	cancel  context.CancelFunc

	mu         sync.Mutex
	started    bool
	stopped    bool
	state      State
	symbols    []string
	generation uint64
	last       Snapshot
}

// New creates a worker. onSnapshot, if not nil, is called on the worker
// goroutine after each completed sweep, with a copy of the snapshot and
// without any worker lock held.
func New(source PriceSource, cfg Config, onSnapshot func(Snapshot), log zerolog.Logger) (*Worker, error) {
	if source == nil {
		return nil, errors.New("refresh: nil price source")
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultConfig().Schedule
	}
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("refresh: invalid schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultConfig().FetchTimeout
	}
	state := Paused
	if cfg.AutoRefresh {
		state = Running
	}
	return &Worker{
		source:     source,
		schedule:   schedule,
		timeout:    cfg.FetchTimeout,
		onSnapshot: onSnapshot,
		log:        log.With().Str("component", "refresh").Logger(),
		now:        time.Now,
		control:    make(chan request, 8),
		done:       make(chan struct{}),
		state:      state,
		last:       Snapshot{Prices: map[string]decimal.Decimal{}},
	}, nil
}

// Start launches the worker goroutine. The worker stops when ctx is
// cancelled or Shutdown is called. Start is a no-op after the first call.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx, w.state)
	w.log.Info().Str("state", w.state.String()).Msg("worker started")
}

// Shutdown stops the worker and waits for its goroutine to return, including
// any sweep in progress. It is terminal and safe to call more than once.
func (w *Worker) Shutdown() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.stopped = true
	started := w.started
	w.mu.Unlock()

	if !started {
		w.setState(ShuttingDown)
		close(w.done)
		return
	}
	w.cancel()
	<-w.done
	w.log.Info().Msg("worker stopped")
}

// Done is closed once the worker goroutine has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

// SetEnabled pauses or resumes the scheduled cycles. A paused worker keeps
// its goroutine and still honours RunOnce.
func (w *Worker) SetEnabled(enabled bool) {
	if enabled {
		w.send(cmdResume)
	} else {
		w.send(cmdPause)
	}
}

// RunOnce runs one cycle as soon as the worker is idle, whatever its state.
// The state is unchanged afterwards.
func (w *Worker) RunOnce() { w.send(cmdRunOnce) }

// Refresh runs one cycle like RunOnce and waits until it completed and the
// snapshot callback returned.
func (w *Worker) Refresh(ctx context.Context) error {
	done := make(chan struct{})
	if !w.post(request{cmd: cmdRunOnce, done: done}) {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-w.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CancelWait cuts the current wait short: a running worker starts its next
// cycle immediately. It is ignored while paused.
func (w *Worker) CancelWait() { w.send(cmdCancelWait) }

func (w *Worker) send(c command) { w.post(request{cmd: c}) }

// post hands r to the loop. It returns false if the loop is not running.
func (w *Worker) post(r request) bool {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return false
	}
	if !w.started {
		// Only the enabled state is remembered until the loop runs.
		switch r.cmd {
		case cmdPause:
			w.state = Paused
		case cmdResume:
			w.state = Running
		}
		w.mu.Unlock()
		return false
	}
	w.mu.Unlock()

	select {
	case w.control <- r:
		return true
	case <-w.done:
		return false
	}
}

// State returns the current state of the loop.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// SetSymbols replaces the symbol set swept by the next cycles.
func (w *Worker) SetSymbols(symbols []string) {
	symbols = slices.Clone(symbols)
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	w.mu.Lock()
	w.symbols = symbols
	w.mu.Unlock()
}

// Symbols returns the current symbol set.
func (w *Worker) Symbols() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.symbols)
}

// ResetSymbols replaces the symbol set, clears the last snapshot and starts
// a new generation, returned. A sweep started before the reset is discarded
// when it completes, and no sweep sees the new generation with the old set.
func (w *Worker) ResetSymbols(symbols []string) uint64 {
	symbols = slices.Clone(symbols)
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.symbols = symbols
	w.last = Snapshot{Generation: w.generation, Prices: map[string]decimal.Decimal{}}
	return w.generation
}

// Snapshot returns a copy of the last completed snapshot.
func (w *Worker) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last.clone()
}

// loop is the worker goroutine. The state machine has the loop as its single
// writer; commands are only ever read here.
//
// next is the deadline of the scheduled cycle. RunOnce and Resume leave it
// alone; a tick or CancelWait clears it, as does leaving Running.
func (w *Worker) loop(ctx context.Context, state State) {
	defer close(w.done)
	var next time.Time
	for {
		var timer *time.Timer
		var tick <-chan time.Time
		if state == Running {
			if next.IsZero() {
				next = w.schedule.Next(w.now())
			}
			timer = time.NewTimer(w.until(next))
			tick = timer.C
		} else {
			next = time.Time{}
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.setState(ShuttingDown)
			return

		case <-tick:
			next = time.Time{}
			w.sweep(ctx)

		case r := <-w.control:
			if timer != nil {
				timer.Stop()
			}
			w.log.Debug().Stringer("command", r.cmd).Stringer("state", state).Msg("command received")
			switch r.cmd {
			case cmdPause:
				state = Paused
			case cmdResume:
				state = Running
			case cmdRunOnce:
				w.sweep(ctx)
			case cmdCancelWait:
				if state == Running {
					next = time.Time{}
					w.sweep(ctx)
				}
			}
			if r.done != nil {
				close(r.done)
			}
			if ctx.Err() == nil {
				w.setState(state)
			}
		}
	}
}

// until returns the wait before deadline, never negative.
func (w *Worker) until(deadline time.Time) time.Duration {
	return max(deadline.Sub(w.now()), 0)
}

// sweep fetches every symbol of the current set and publishes the snapshot.
func (w *Worker) sweep(ctx context.Context) {
	w.mu.Lock()
	symbols := slices.Clone(w.symbols)
	generation := w.generation
	w.mu.Unlock()

	start := w.now()
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}
		price, err := w.fetch(ctx, symbol)
		if err != nil {
			w.log.Warn().Err(err).Str("symbol", symbol).Msg("price unavailable this cycle")
			continue
		}
		prices[symbol] = price
	}

	snap := Snapshot{Generation: generation, Taken: w.now(), Prices: prices}
	w.mu.Lock()
	if generation != w.generation {
		w.mu.Unlock()
		w.log.Debug().Uint64("generation", generation).Msg("stale snapshot discarded")
		return
	}
	w.last = snap
	w.mu.Unlock()

	w.log.Debug().
		Int("symbols", len(symbols)).
		Int("priced", len(prices)).
		Dur("took", w.now().Sub(start)).
		Msg("refresh cycle completed")

	if w.onSnapshot != nil {
		w.onSnapshot(snap.clone())
	}
}

func (w *Worker) fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	price, err := w.source.LastClosePrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, &PriceFetchError{Symbol: symbol, Err: err}
	}
	if price.IsNegative() {
		return decimal.Zero, &PriceFetchError{Symbol: symbol, Err: fmt.Errorf("negative price %s", price)}
	}
	return price, nil
}
