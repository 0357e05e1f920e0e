package sterling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

func init() {
	// Numbers in the trade log are plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// TradeLog is the content of a trade log file: a portfolio name and its
// trades in chronological order.
type TradeLog struct {
	Name   string
	Trades []Trade
}

// requiredFields are the trade fields that must be present in a trade log.
var requiredFields = []string{"date", "action", "quantity", "symbol", "price", "fee", "stamp_duty"}

// MarshalJSON writes the trade with a fixed field order.
func (t Trade) MarshalJSON() ([]byte, error) {
	var o orderedObject
	o.Set("id", t.id)
	o.Set("date", FormatDate(t.date))
	o.Set("action", t.action)
	o.Set("quantity", t.quantity)
	o.Set("symbol", t.symbol)
	o.Set("price", t.price)
	o.Set("fee", t.fee)
	o.Set("stamp_duty", t.stampDuty)
	o.SetNonEmpty("notes", t.notes)
	return o.MarshalJSON()
}

// UnmarshalJSON reads a trade. Cash actions accept empty or zero values for
// the security fields.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("missing field %q", key)
		}
	}

	var r TradeRecord
	for key, dst := range map[string]*string{
		"id":         &r.ID,
		"date":       &r.Date,
		"action":     &r.Action,
		"quantity":   &r.Quantity,
		"symbol":     &r.Symbol,
		"price":      &r.Price,
		"fee":        &r.Fee,
		"stamp_duty": &r.StampDuty,
		"notes":      &r.Notes,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		s, err := scalar(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		*dst = s
	}

	trade, err := NewTrade(r)
	if err != nil {
		return err
	}
	*t = trade
	return nil
}

// scalar returns the text of a JSON string, number or null.
func scalar(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return "", nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("not a string or a number: %s", raw)
	}
	return n.String(), nil
}

// DecodeTradeLog reads a trade log. Trades are sorted by date, trades on the
// same date keep their order in the file.
func DecodeTradeLog(r io.Reader) (*TradeLog, error) {
	var jlog struct {
		Name   string            `json:"name"`
		Trades []json.RawMessage `json:"trades"`
	}
	if err := json.NewDecoder(r).Decode(&jlog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	tl := &TradeLog{Name: jlog.Name, Trades: make([]Trade, 0, len(jlog.Trades))}
	for i, raw := range jlog.Trades {
		var t Trade
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("%w: trade #%d: %w", ErrFormat, i, err)
		}
		tl.Trades = append(tl.Trades, t)
	}
	if id, dup := duplicateID(tl.Trades); dup {
		return nil, fmt.Errorf("%w: %w: %s", ErrFormat, ErrDuplicateTrade, id)
	}
	sortTrades(tl.Trades)
	return tl, nil
}

// EncodeTradeLog writes tl as indented JSON.
func EncodeTradeLog(w io.Writer, tl *TradeLog) error {
	trades := tl.Trades
	if trades == nil {
		trades = []Trade{}
	}
	var obj orderedObject
	obj.Set("name", tl.Name)
	obj.Set("trades", trades)
	compact, err := obj.MarshalJSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

// LoadTradeLog reads the trade log file at path.
func LoadTradeLog(path string) (*TradeLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	tl, err := DecodeTradeLog(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return tl, nil
}

// SaveTradeLog writes tl to path. The file is replaced atomically: readers see
// either the previous content or the new one.
func SaveTradeLog(path string, tl *TradeLog) error {
	if err := saveTradeLog(path, tl); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

func saveTradeLog(path string, tl *TradeLog) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op once renamed.

	if err := EncodeTradeLog(f, tl); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
