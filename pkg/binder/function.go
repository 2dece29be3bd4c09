package binder

import (
	"context"
	"fmt"

	"github.com/vito/binder/pkg/ioctx"
)

// Callable is any value that can be called with positional arguments.
type Callable interface {
	Value
	Call(ctx context.Context, args ...Value) (Value, error)
}

// Function binds its arguments against Params and passes the result to
// Impl. Variadic functions declare an explicit Rest slot; there is no
// implicit access to the raw argument list. Parameter defaults see earlier
// parameters only.
type Function struct {
	Name   string
	Doc    string
	Params *Pattern
	Impl   func(ctx context.Context, args *Result) (Value, error)
}

var _ Callable = (*Function)(nil)

func (f *Function) Shape() Shape { return ScalarShape }

func (f *Function) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, f.Params.slotsString())
}

func (f *Function) Call(ctx context.Context, args ...Value) (Value, error) {
	ioctx.LoggerFromContext(ctx).Debug("calling function", "function", f.Name, "args", len(args))
	bound, err := f.Params.Bind(ctx, nil, NewList(args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	return f.Impl(ctx, bound)
}

// FunctionBuilder provides a fluent API for defining functions
type FunctionBuilder struct {
	fn    Function
	slots []Slot
	mode  Mode
}

// Define starts a new function definition.
func Define(name string) *FunctionBuilder {
	return &FunctionBuilder{fn: Function{Name: name}}
}

// Doc sets the documentation string
func (b *FunctionBuilder) Doc(doc string) *FunctionBuilder {
	b.fn.Doc = doc
	return b
}

// Params appends parameter slots.
func (b *FunctionBuilder) Params(slots ...Slot) *FunctionBuilder {
	b.slots = append(b.slots, slots...)
	return b
}

// Mode sets the binding mode for the parameter list.
func (b *FunctionBuilder) Mode(mode Mode) *FunctionBuilder {
	b.mode = mode
	return b
}

// Impl sets the implementation and builds the function.
func (b *FunctionBuilder) Impl(impl func(ctx context.Context, args *Result) (Value, error)) (*Function, error) {
	params, err := Sequence(b.slots...)
	if err != nil {
		return nil, fmt.Errorf("defining %s: %w", b.fn.Name, err)
	}
	fn := b.fn
	fn.Params = params.WithMode(b.mode)
	fn.Impl = impl
	return &fn, nil
}
