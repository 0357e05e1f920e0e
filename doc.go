// Package sterling provides the types and the engine behind a personal,
// single-currency (GBP) portfolio tracker.
//
// The core functionalities include:
//   - Trade Log: an append-only, chronological list of trades (buys, sells,
//     deposits, withdrawals, dividends and fees) that is the single source of
//     truth for the account.
//   - Replay: a pure fold of the trade log into cash balances and holdings,
//     with admission control that rejects any trade that would make the
//     account insolvent at the date it applies.
//   - Ledger: the engine that owns the trade log, validates every mutation
//     against the whole history before committing it, and keeps live holding
//     prices up to date through a background refresh worker.
//   - Valuation: cost, value and profit/loss queries over a consistent copy of
//     the ledger state.
//   - Data Persistence: encoding and decoding of the trade log to and from a
//     human-readable, diff-friendly JSON file.
//
// This package serves as the foundational logic for the `sterling`
// command-line tool.
package sterling
