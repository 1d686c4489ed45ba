// Package record holds the typed row representation produced by generated queries.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a tagged union of null, int, float and string.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func Null() Value { return Value{kind: KindNull} }
func Int(v int64) Value { return Value{kind: KindInt, i: v} }
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }
func String(v string) Value { return Value{kind: KindString, s: v} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) AsInt() int64 { return v.i }
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}
func (v Value) AsString() string { return v.s }

// FromDriver converts a value scanned into interface{} by database/sql.
// Numeric text (lib/pq returns NUMERIC as []byte) becomes int or float,
// times are rendered as RFC 3339, booleans as "true"/"false".
func FromDriver(src interface{}) Value {
	switch v := src.(type) {
	case nil:
		return Null()
	case int64:
		return Int(v)
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint64:
		if v > math.MaxInt64 {
			return Float(float64(v))
		}
		return Int(int64(v))
	case float64:
		return Float(v)
	case float32:
		return Float(float64(v))
	case bool:
		return String(strconv.FormatBool(v))
	case time.Time:
		return String(v.Format(time.RFC3339))
	case []byte:
		return fromText(string(v))
	case string:
		return String(v)
	default:
		return String(fmt.Sprint(v))
	}
}

func fromText(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if looksNumeric(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f)
		}
	}
	return String(s)
}

// looksNumeric rejects words ParseFloat would accept, such as "Inf" or "NaN".
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789.-+eE", r) {
			return false
		}
	}
	return true
}

// Interface returns the natural Go value: nil, int64, float64 or string.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String renders v for prompts: strings quoted, null as "null".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "null"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindFloat && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
		return json.Marshal(strconv.FormatFloat(v.f, 'f', -1, 64))
	}
	return json.Marshal(v.Interface())
}

// Field is one column of a Record.
type Field struct {
	Column string
	Value  Value
}

// Record is one result row, keeping the column order of the result set.
type Record struct {
	fields []Field
}

// New pairs columns with values; it panics if their lengths differ.
func New(columns []string, values []Value) Record {
	if len(columns) != len(values) {
		panic(fmt.Sprintf("record: %d columns but %d values", len(columns), len(values)))
	}
	fields := make([]Field, len(columns))
	for i := range columns {
		fields[i] = Field{Column: columns[i], Value: values[i]}
	}
	return Record{fields: fields}
}

func (r Record) Len() int { return len(r.fields) }
func (r Record) Fields() []Field { return append([]Field(nil), r.fields...) }

func (r Record) Columns() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Column
	}
	return out
}

// Get returns the first field named column.
func (r Record) Get(column string) (Value, bool) {
	for _, f := range r.fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return Value{}, false
}

// String renders the record as a key/value listing with every column name verbatim.
func (r Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Column)
		b.WriteString(": ")
		b.WriteString(f.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON writes an object whose keys follow column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
