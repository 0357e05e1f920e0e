package sterling

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedObject is a JSON object that keeps its keys in the order they were
// set. The zero value is an empty object.
type orderedObject struct {
	keys   []string
	values []json.RawMessage
	err    error
}

// Set marshals v under key. After the first failure, Set does nothing and
// the error is returned by MarshalJSON.
func (o *orderedObject) Set(key string, v any) {
	if o.err != nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		o.err = fmt.Errorf("field %q: %w", key, err)
		return
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, raw)
}

// SetNonEmpty sets key only when s is not empty.
func (o *orderedObject) SetNonEmpty(key, s string) {
	if s != "" {
		o.Set(key, s)
	}
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(o.values[i])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
