package sterling

import (
	"fmt"
	"strings"
)

// Action is a typed string identifying the kind of a trade.
type Action string

// Actions recorded in the trade log.
const (
	Buy      Action = "BUY"
	Sell     Action = "SELL"
	Deposit  Action = "DEPOSIT"
	Withdraw Action = "WITHDRAW"
	Dividend Action = "DIVIDEND"
	Fee      Action = "FEE"
)

// Actions lists every valid action in display order.
var Actions = []Action{Buy, Sell, Deposit, Withdraw, Dividend, Fee}

// ParseAction parses a case-insensitive action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case Buy, Sell, Deposit, Withdraw, Dividend, Fee:
		return true
	}
	return false
}

// IsCash reports whether a only moves cash. The quantity of a cash action is
// an amount of pounds and its symbol, price, fee and stamp duty are ignored.
func (a Action) IsCash() bool {
	switch a {
	case Deposit, Withdraw, Dividend, Fee:
		return true
	}
	return false
}

func (a Action) String() string { return string(a) }
