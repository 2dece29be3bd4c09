package binder

import "math"

// Combiner folds one value into an accumulator.
type Combiner func(acc, v Value) (Value, error)

// Reduce folds seq left to right. With a seed, folding starts from it;
// without one the first element is the starting accumulator, and an empty
// seq fails with ErrEmptySequence. Only the first seed is used.
func Reduce[T any](seq []T, combine func(acc, v T) (T, error), seed ...T) (T, error) {
	var acc T
	rest := seq
	switch {
	case len(seed) > 0:
		acc = seed[0]
	case len(seq) == 0:
		return acc, ErrEmptySequence
	default:
		acc, rest = seq[0], seq[1:]
	}
	for _, v := range rest {
		var err error
		acc, err = combine(acc, v)
		if err != nil {
			var zero T
			return zero, err
		}
	}
	return acc, nil
}

// ReduceValues reduces any sequence-shaped value.
func ReduceValues(seq SequenceView, combine Combiner, seed ...Value) (Value, error) {
	vals := make([]Value, seq.Len())
	for i := range vals {
		vals[i] = seq.At(i)
	}
	return Reduce(vals, combine, seed...)
}

// SpreadList concatenates sequence-shaped values into a fresh list.
func SpreadList(vals ...Value) (ListValue, error) {
	out, err := Reduce(vals, Concat, Value(ListValue{Elements: []Value{}}))
	if err != nil {
		return ListValue{}, err
	}
	return out.(ListValue), nil
}

// SpreadRecord merges mapping-shaped values into a fresh record; later
// values win.
func SpreadRecord(vals ...Value) (*RecordValue, error) {
	out, err := Reduce(vals, MergeRight, Value(&RecordValue{Fields: []Keyed[Value]{}}))
	if err != nil {
		return nil, err
	}
	return out.(*RecordValue), nil
}

// Concat appends the elements of b to those of a in a fresh list. Strings
// contribute one element per character.
func Concat(a, b Value) (Value, error) {
	left, ok := AsSequence(a)
	if !ok {
		return nil, &ShapeError{Want: SequenceShape, Got: a}
	}
	right, ok := AsSequence(b)
	if !ok {
		return nil, &ShapeError{Want: SequenceShape, Got: b}
	}
	elems := make([]Value, 0, left.Len()+right.Len())
	for i := 0; i < left.Len(); i++ {
		elems = append(elems, left.At(i))
	}
	for i := 0; i < right.Len(); i++ {
		elems = append(elems, right.At(i))
	}
	return ListValue{Elements: elems}, nil
}

// MergeRight copies a then b into a fresh record. Keys of b overwrite keys
// of a but keep a's position. Absent and null operands contribute nothing.
func MergeRight(a, b Value) (Value, error) {
	out := &RecordValue{Fields: []Keyed[Value]{}}
	for _, operand := range []Value{a, b} {
		if IsNullish(operand) {
			continue
		}
		m, ok := AsMapping(operand)
		if !ok {
			return nil, &ShapeError{Want: MappingShape, Got: operand}
		}
		for _, key := range m.Keys() {
			val, _ := m.Lookup(key)
			out.Set(key, val)
		}
	}
	return out, nil
}

// Add sums numbers, or concatenates when either side is a string. Int sums
// that overflow become floats.
func Add(a, b Value) (Value, error) {
	if s, ok := a.(StringValue); ok && !IsAbsent(b) {
		return StringValue{Val: s.Val + b.String()}, nil
	}
	if s, ok := b.(StringValue); ok && !IsAbsent(a) {
		return StringValue{Val: a.String() + s.Val}, nil
	}
	return arith("add", a, b, addInts,
		func(x, y float64) float64 { return x + y })
}

// Multiply multiplies numbers. Int products that overflow become floats.
func Multiply(a, b Value) (Value, error) {
	return arith("multiply", a, b, mulInts,
		func(x, y float64) float64 { return x * y })
}

func addInts(x, y int) (int, bool) {
	if (y > 0 && x > math.MaxInt-y) || (y < 0 && x < math.MinInt-y) {
		return 0, false
	}
	return x + y, true
}

func mulInts(x, y int) (int, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	r := x * y
	if r/y != x || (x == -1 && y == math.MinInt) || (y == -1 && x == math.MinInt) {
		return 0, false
	}
	return r, true
}

func arith(op string, a, b Value, ints func(int, int) (int, bool), floats func(float64, float64) float64) (Value, error) {
	if x, ok := a.(IntValue); ok {
		if y, ok := b.(IntValue); ok {
			if n, ok := ints(x.Val, y.Val); ok {
				return IntValue{Val: n}, nil
			}
		}
	}
	x, okA := toFloat(a)
	y, okB := toFloat(b)
	if !okA || !okB {
		return nil, &OperandError{Op: op, Left: a, Right: b}
	}
	return FloatValue{Val: floats(x, y)}, nil
}

func toFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case IntValue:
		return float64(x.Val), true
	case FloatValue:
		return x.Val, true
	default:
		return 0, false
	}
}
