package binder

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value represents a runtime value that can be bound, spread or reduced
type Value interface {
	Shape() Shape
	String() string
}

// Shape classifies a value for pattern matching purposes.
type Shape int

const (
	ScalarShape Shape = iota
	SequenceShape
	MappingShape
	AbsentShape
)

func (s Shape) String() string {
	switch s {
	case ScalarShape:
		return "scalar"
	case SequenceShape:
		return "sequence"
	case MappingShape:
		return "mapping"
	case AbsentShape:
		return "absent"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// SequenceView is implemented by anything that can be read positionally.
type SequenceView interface {
	Len() int
	At(i int) Value
}

// MappingView is implemented by anything that can be read by key. Keys are
// returned in iteration order.
type MappingView interface {
	Keys() []string
	Lookup(key string) (Value, bool)
}

// AsSequence adapts a value to a SequenceView.
func AsSequence(v Value) (SequenceView, bool) {
	seq, ok := v.(SequenceView)
	return seq, ok
}

// AsMapping adapts a value to a MappingView.
func AsMapping(v Value) (MappingView, bool) {
	m, ok := v.(MappingView)
	return m, ok
}

// Keyed is a key/value pair that keeps its position in an ordered collection.
type Keyed[X any] struct {
	Key   string
	Value X
}

// StringValue represents a string value
type StringValue struct {
	Val string
}

var _ SequenceView = StringValue{}
var _ MappingView = StringValue{}

func (s StringValue) Shape() Shape   { return ScalarShape }
func (s StringValue) String() string { return s.Val }

func (s StringValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Val)
}

// Len returns the number of characters (runes), not bytes.
func (s StringValue) Len() int {
	return len([]rune(s.Val))
}

func (s StringValue) At(i int) Value {
	runes := []rune(s.Val)
	if i < 0 || i >= len(runes) {
		return AbsentValue{}
	}
	return StringValue{Val: string(runes[i])}
}

func (s StringValue) Keys() []string {
	return indexKeys(s.Len())
}

func (s StringValue) Lookup(key string) (Value, bool) {
	return lookupIndex(s, key)
}

// IntValue represents an integer value
type IntValue struct {
	Val int
}

func (i IntValue) Shape() Shape   { return ScalarShape }
func (i IntValue) String() string { return strconv.Itoa(i.Val) }

func (i IntValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Val)
}

// FloatValue represents a floating-point value
type FloatValue struct {
	Val float64
}

func (f FloatValue) Shape() Shape   { return ScalarShape }
func (f FloatValue) String() string { return strconv.FormatFloat(f.Val, 'g', -1, 64) }

func (f FloatValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Val)
}

// BoolValue represents a boolean value
type BoolValue struct {
	Val bool
}

func (b BoolValue) Shape() Shape   { return ScalarShape }
func (b BoolValue) String() string { return strconv.FormatBool(b.Val) }

func (b BoolValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Val)
}

// NullValue is the explicit null-like sentinel.
type NullValue struct{}

func (n NullValue) Shape() Shape   { return ScalarShape }
func (n NullValue) String() string { return "null" }

func (n NullValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(nil)
}

// AbsentValue marks a value that was never supplied.
type AbsentValue struct{}

func (a AbsentValue) Shape() Shape   { return AbsentShape }
func (a AbsentValue) String() string { return "undefined" }

func (a AbsentValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(nil)
}

// IsAbsent reports whether v is missing entirely.
func IsAbsent(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(AbsentValue)
	return ok
}

// IsNullish reports whether v is absent or null.
func IsNullish(v Value) bool {
	if IsAbsent(v) {
		return true
	}
	_, ok := v.(NullValue)
	return ok
}

// ListValue represents a list value
type ListValue struct {
	Elements []Value
}

var _ SequenceView = ListValue{}
var _ MappingView = ListValue{}

// NewList copies elems into a fresh list.
func NewList(elems ...Value) ListValue {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return ListValue{Elements: cp}
}

func (l ListValue) Shape() Shape { return SequenceShape }

func (l ListValue) String() string {
	var result strings.Builder
	result.WriteString("[")
	for i, elem := range l.Elements {
		if i > 0 {
			result.WriteString(", ")
		}
		result.WriteString(Inspect(elem))
	}
	return result.String() + "]"
}

func (l ListValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Elements)
}

func (l ListValue) Len() int { return len(l.Elements) }

func (l ListValue) At(i int) Value {
	if i < 0 || i >= len(l.Elements) {
		return AbsentValue{}
	}
	return l.Elements[i]
}

func (l ListValue) Keys() []string {
	return indexKeys(len(l.Elements))
}

func (l ListValue) Lookup(key string) (Value, bool) {
	return lookupIndex(l, key)
}

// RecordValue is an insertion-ordered mapping.
type RecordValue struct {
	Fields []Keyed[Value]
}

var _ MappingView = (*RecordValue)(nil)

// NewRecord builds a record from fields, later duplicates overwriting
// earlier ones in place.
func NewRecord(fields ...Keyed[Value]) *RecordValue {
	rec := &RecordValue{}
	for _, f := range fields {
		rec.Set(f.Key, f.Value)
	}
	return rec
}

func (r *RecordValue) Shape() Shape { return MappingShape }

func (r *RecordValue) String() string {
	if len(r.Fields) == 0 {
		return "{}"
	}
	var result strings.Builder
	result.WriteString("{")
	for i, f := range r.Fields {
		if i > 0 {
			result.WriteString(", ")
		}
		result.WriteString(formatKey(f.Key))
		result.WriteString(": ")
		result.WriteString(Inspect(f.Value))
	}
	return result.String() + "}"
}

func (r *RecordValue) MarshalJSON() ([]byte, error) {
	var buf strings.Builder
	buf.WriteString("{")
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshaling field %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteString(":")
		buf.Write(val)
	}
	buf.WriteString("}")
	return []byte(buf.String()), nil
}

func (r *RecordValue) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

func (r *RecordValue) Lookup(key string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set overwrites key in place, or appends it. Only call this on records the
// caller owns.
func (r *RecordValue) Set(key string, val Value) {
	for i, f := range r.Fields {
		if f.Key == key {
			r.Fields[i].Value = val
			return
		}
	}
	r.Fields = append(r.Fields, Keyed[Value]{Key: key, Value: val})
}

// Inspect renders a value in literal notation, quoting strings.
func Inspect(v Value) string {
	switch x := v.(type) {
	case nil:
		return "undefined"
	case StringValue:
		return strconv.Quote(x.Val)
	case FloatValue:
		return inspectFloat(x.Val)
	default:
		return v.String()
	}
}

// inspectFloat keeps a decimal point on whole floats so they read back as
// floats rather than ints.
func inspectFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatKey(key string) string {
	if isIdent(key) {
		return key
	}
	return strconv.Quote(key)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func indexKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

func lookupIndex(seq SequenceView, key string) (Value, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= seq.Len() || strconv.Itoa(i) != key {
		return nil, false
	}
	return seq.At(i), true
}
