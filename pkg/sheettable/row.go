package sheettable

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which member of a Value is set.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

// Value is a single cell value: null, text or number.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a numeric value holding i.
func Int(i int64) Value { return Value{kind: KindNumber, num: float64(i)} }

// ValueOf converts loosely typed input (as found in decoded JSON, SQL rows or
// map literals) into a Value.
func ValueOf(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case bool:
		if x {
			return Int(1)
		}
		return Int(0)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case *string:
		if x == nil {
			return Null()
		}
		return String(*x)
	case time.Time:
		return String(x.Format("2006-01-02"))
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// Kind reports the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric content of v. Text is parsed; ok is false when
// v is null or the text is not a number.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		return f, err == nil
	}
	return 0, false
}

// Text returns the textual form of v, "" for null.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return ""
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "<null>"
	}
	return v.Text()
}

// Field is one key/value pair of a Row.
type Field struct {
	Key   string
	Value Value
}

// Row is an ordered set of fields. Keys are unique; the order is the column
// order used when the row produces the header.
type Row []Field

// RowOf builds a Row from alternating key, value arguments. Values go through
// ValueOf. It panics on an odd argument count or a non-string key.
func RowOf(kv ...interface{}) Row {
	if len(kv)%2 != 0 {
		panic("sheettable: RowOf needs an even number of arguments")
	}
	r := make(Row, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("sheettable: RowOf key %v is not a string", kv[i]))
		}
		r = r.Set(key, ValueOf(kv[i+1]))
	}
	return r
}

// Get returns the value stored under key.
func (r Row) Get(key string) (Value, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set replaces the value under key, or appends it when the key is new.
func (r Row) Set(key string, v Value) Row {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = v
			return r
		}
	}
	return append(r, Field{Key: key, Value: v})
}

// Keys returns the keys of r in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// RowIterator is a one-pass sequence of rows. Next returns ok=false once the
// sequence is exhausted. The writer never calls Next again after that.
type RowIterator interface {
	Next() (row Row, ok bool, err error)
}

// RowIteratorFunc adapts a function to RowIterator.
type RowIteratorFunc func() (Row, bool, error)

func (f RowIteratorFunc) Next() (Row, bool, error) { return f() }

// SliceRows iterates over an in-memory slice of rows.
type SliceRows struct {
	rows []Row
	pos  int
}

// NewSliceRows returns an iterator over rows.
func NewSliceRows(rows ...Row) *SliceRows {
	return &SliceRows{rows: rows}
}

func (s *SliceRows) Next() (Row, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	r := s.rows[s.pos]
	s.pos++
	return r, true, nil
}

// Consumed reports how many rows have been handed out.
func (s *SliceRows) Consumed() int { return s.pos }
