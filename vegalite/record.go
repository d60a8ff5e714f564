package vegalite

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Field is one named cell of a [Record].
type Field struct {
	Name  string
	Value any
}

// Record is a data row with a stable key order.
type Record []Field

// NewRecord builds a record from alternating name/value arguments.
// A trailing name without value is ignored.
func NewRecord(kv ...any) Record {
	r := make(Record, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		name, _ := kv[i].(string)
		r = append(r, Field{Name: name, Value: kv[i+1]})
	}

	return r
}

// Get returns the value stored under name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

// Float returns the numeric value stored under name.
func (r Record) Float(name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}

	f, ok := v.(float64)

	return f, ok
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Name
	}

	return out
}

// MarshalJSON writes the record as an object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(jsonValue(f.Value))
		if err != nil {
			return nil, err
		}

		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// jsonValue maps non-finite floats to nil so they encode as null.
func jsonValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case []float64:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = jsonValue(f)
		}

		return out
	}

	return v
}

// FormatNumber renders v for use inside an expression string.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Datum returns the expression accessing field name of the current datum.
func Datum(name string) string {
	if isIdentifier(name) {
		return "datum." + name
	}

	return "datum[" + strconv.Quote(name) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
