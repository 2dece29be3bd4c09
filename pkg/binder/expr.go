package binder

import (
	"context"
	"fmt"
	"strings"
)

// Expr is evaluated lazily, e.g. as a slot default or at a spread site.
type Expr interface {
	Eval(ctx context.Context, env Env) (Value, error)
	String() string
}

// Lit is a constant.
type Lit struct {
	Value Value
}

func (l Lit) Eval(context.Context, Env) (Value, error) { return l.Value, nil }
func (l Lit) String() string                          { return Inspect(l.Value) }

// Ref looks up a name.
type Ref struct {
	Name string
}

func (r Ref) Eval(_ context.Context, env Env) (Value, error) {
	if env != nil {
		if v, ok := env.Get(r.Name); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnbound, r.Name)
}

func (r Ref) String() string { return r.Name }

// ExprFunc adapts a Go function to an Expr.
type ExprFunc func(ctx context.Context, env Env) (Value, error)

func (f ExprFunc) Eval(ctx context.Context, env Env) (Value, error) { return f(ctx, env) }
func (f ExprFunc) String() string                                  { return "<func>" }

// Elem is a list element or call argument, optionally spread.
type Elem struct {
	Spread bool
	Expr   Expr
}

func (e Elem) String() string {
	if e.Spread {
		return "..." + e.Expr.String()
	}
	return e.Expr.String()
}

// ListExpr builds a fresh list.
type ListExpr struct {
	Elems []Elem
}

func (l ListExpr) Eval(ctx context.Context, env Env) (Value, error) {
	elems, err := evalElems(ctx, env, l.Elems)
	if err != nil {
		return nil, err
	}
	return ListValue{Elements: elems}, nil
}

func (l ListExpr) String() string {
	return "[" + joinElems(l.Elems) + "]"
}

// Entry is a record entry: either key: expr, or a spread of another mapping.
type Entry struct {
	Spread bool
	Key    string
	Expr   Expr
}

func (e Entry) String() string {
	if e.Spread {
		return "..." + e.Expr.String()
	}
	if ref, ok := e.Expr.(Ref); ok && ref.Name == e.Key {
		return e.Key
	}
	return formatKey(e.Key) + ": " + e.Expr.String()
}

// RecordExpr builds a fresh record. Entries apply left to right, so later
// keys win while keeping their first position.
type RecordExpr struct {
	Entries []Entry
}

func (r RecordExpr) Eval(ctx context.Context, env Env) (Value, error) {
	rec := &RecordValue{Fields: []Keyed[Value]{}}
	for _, entry := range r.Entries {
		val, err := entry.Expr.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		if !entry.Spread {
			rec.Set(entry.Key, val)
			continue
		}
		merged, err := MergeRight(rec, val)
		if err != nil {
			return nil, err
		}
		rec = merged.(*RecordValue)
	}
	return rec, nil
}

func (r RecordExpr) String() string {
	parts := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CallExpr calls a function value with positional, possibly spread,
// arguments.
type CallExpr struct {
	Fn   Expr
	Args []Elem
}

func (c CallExpr) Eval(ctx context.Context, env Env) (Value, error) {
	fnVal, err := c.Fn.Eval(ctx, env)
	if err != nil {
		return nil, err
	}
	fn, ok := fnVal.(Callable)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCallable, Inspect(fnVal))
	}
	args, err := evalElems(ctx, env, c.Args)
	if err != nil {
		return nil, err
	}
	return fn.Call(ctx, args...)
}

func (c CallExpr) String() string {
	return c.Fn.String() + "(" + joinElems(c.Args) + ")"
}

func evalElems(ctx context.Context, env Env, elems []Elem) ([]Value, error) {
	vals := []Value{}
	for _, elem := range elems {
		val, err := elem.Expr.Eval(ctx, env)
		if err != nil {
			return nil, err
		}
		if !elem.Spread {
			vals = append(vals, val)
			continue
		}
		seq, ok := AsSequence(val)
		if !ok {
			return nil, &ShapeError{Path: "..." + elem.Expr.String(), Want: SequenceShape, Got: val}
		}
		for i := 0; i < seq.Len(); i++ {
			vals = append(vals, seq.At(i))
		}
	}
	return vals, nil
}

func joinElems(elems []Elem) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
