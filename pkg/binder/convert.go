package binder

import (
	"fmt"
	"math"
	"sort"
)

// ToValue converts a Go value to a Value. Maps are converted with their keys
// sorted, since Go maps have no order of their own.
func ToValue(v any) (Value, error) {
	if v == nil {
		return NullValue{}, nil
	}

	switch val := v.(type) {
	case Value:
		return val, nil

	case string:
		return StringValue{Val: val}, nil

	case int:
		return IntValue{Val: val}, nil
	case int8:
		return IntValue{Val: int(val)}, nil
	case int16:
		return IntValue{Val: int(val)}, nil
	case int32:
		return IntValue{Val: int(val)}, nil
	case int64:
		return IntValue{Val: int(val)}, nil
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return IntValue{Val: int(val)}, nil
	case uint16:
		return IntValue{Val: int(val)}, nil
	case uint32:
		return fromUint(uint64(val))
	case uint64:
		return fromUint(val)

	case float32:
		return FloatValue{Val: float64(val)}, nil
	case float64:
		return FloatValue{Val: val}, nil

	case bool:
		return BoolValue{Val: val}, nil

	case []string:
		values := make([]Value, len(val))
		for i, s := range val {
			values[i] = StringValue{Val: s}
		}
		return ListValue{Elements: values}, nil

	case []int:
		values := make([]Value, len(val))
		for i, n := range val {
			values[i] = IntValue{Val: n}
		}
		return ListValue{Elements: values}, nil

	case []any:
		values := make([]Value, len(val))
		for i, item := range val {
			converted, err := ToValue(item)
			if err != nil {
				return nil, fmt.Errorf("converting list element %d: %w", i, err)
			}
			values[i] = converted
		}
		return ListValue{Elements: values}, nil

	case []map[string]any:
		values := make([]Value, len(val))
		for i, item := range val {
			converted, err := ToValue(item)
			if err != nil {
				return nil, fmt.Errorf("converting list element %d: %w", i, err)
			}
			values[i] = converted
		}
		return ListValue{Elements: values}, nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rec := &RecordValue{Fields: make([]Keyed[Value], 0, len(keys))}
		for _, k := range keys {
			converted, err := ToValue(val[k])
			if err != nil {
				return nil, fmt.Errorf("converting field %s: %w", k, err)
			}
			rec.Fields = append(rec.Fields, Keyed[Value]{Key: k, Value: converted})
		}
		return rec, nil

	default:
		return nil, fmt.Errorf("cannot convert Go type %T to a Value", v)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt {
		return nil, fmt.Errorf("cannot convert %d to a Value: out of int range", u)
	}
	return IntValue{Val: int(u)}, nil
}
