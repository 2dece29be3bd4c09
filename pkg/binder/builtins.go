package binder

import (
	"context"
	"fmt"
	"strings"

	"github.com/vito/binder/pkg/ioctx"
)

// Builtins returns a fresh set of the builtin functions.
func Builtins() []*Function {
	return []*Function{
		must(Define("multiply").
			Doc("Multiplies x by y, which defaults to 1.").
			Params(Named("x"), Named("y").WithDefault(Lit{IntValue{Val: 1}})).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return Multiply(arg(args, "x"), arg(args, "y"))
			})),

		must(Define("sum").
			Doc("Adds up every argument. Fails when called with no arguments.").
			Params(Rest("nums")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return ReduceValues(list(args, "nums"), Add)
			})),

		must(Define("product").
			Doc("Multiplies every argument. Fails when called with no arguments.").
			Params(Rest("nums")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return ReduceValues(list(args, "nums"), Multiply)
			})),

		must(Define("add").
			Doc("Adds a and b. A null b counts as missing and defaults to 0.").
			Params(Named("a"), Named("b").WithDefault(Lit{IntValue{Val: 0}})).
			Mode(OmittedOrNullish).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return Add(arg(args, "a"), arg(args, "b"))
			})),

		must(Define("greet").
			Doc("Greets a person.").
			Params(
				Named("person"),
				Named("greeting").WithDefault(Lit{StringValue{Val: "hi"}}),
				Named("punctuation").WithDefault(Lit{StringValue{Val: "!"}}),
			).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return StringValue{Val: fmt.Sprintf("%s, %s %s",
					arg(args, "greeting"), arg(args, "person"), arg(args, "punctuation"))}, nil
			})),

		must(Define("fullName").
			Doc("Returns its bindings: first, last, and any remaining titles.").
			Params(Named("first"), Named("last"), Rest("titles")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return args.Record(), nil
			})),

		must(Define("giveMeFour").
			Doc("Returns its four positional bindings.").
			Params(Named("a"), Named("b"), Named("c"), Named("d")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return args.Record(), nil
			})),

		must(Define("describe").
			Doc("Formats a runner record as \"first last, title\".").
			Params(Nested(MustPattern(Mapping(Named("first"), Named("last"), Named("title"))))).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return StringValue{Val: fmt.Sprintf("%s %s, %s",
					arg(args, "first"), arg(args, "last"), arg(args, "title"))}, nil
			})),

		must(Define("parseResponse").
			Doc("Reports the status of a [protocol, statusCode, contentType] response.").
			Params(Nested(MustPattern(Sequence(Named("protocol"), Named("statusCode"), Named("contentType"))))).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return StringValue{Val: "Status: " + arg(args, "statusCode").String()}, nil
			})),

		must(Define("concat").
			Doc("Spreads every argument into one new list.").
			Params(Rest("lists")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return SpreadList(list(args, "lists").Elements...)
			})),

		must(Define("merge").
			Doc("Spreads every argument into one new record; later keys win.").
			Params(Rest("records")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				return SpreadRecord(list(args, "records").Elements...)
			})),

		must(Define("reduce").
			Doc("Folds a sequence with a function, starting from an optional seed.").
			Params(Named("seq"), Named("fn"), Rest("seed")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				seq, ok := AsSequence(arg(args, "seq"))
				if !ok {
					return nil, &ShapeError{Path: "seq", Want: SequenceShape, Got: arg(args, "seq")}
				}
				fn, ok := arg(args, "fn").(Callable)
				if !ok {
					return nil, fmt.Errorf("%w: %s", ErrNotCallable, Inspect(arg(args, "fn")))
				}
				return ReduceValues(seq, func(acc, v Value) (Value, error) {
					return fn.Call(ctx, acc, v)
				}, list(args, "seed").Elements...)
			})),

		must(Define("print").
			Doc("Writes its arguments to stdout, separated by spaces.").
			Params(Rest("values")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				vals := list(args, "values").Elements
				parts := make([]string, len(vals))
				for i, v := range vals {
					parts[i] = v.String()
				}
				fmt.Fprintln(ioctx.StdoutFromContext(ctx), strings.Join(parts, " "))
				return AbsentValue{}, nil
			})),

		must(Define("len").
			Doc("Counts the elements of a sequence or the keys of a mapping.").
			Params(Named("value")).
			Impl(func(ctx context.Context, args *Result) (Value, error) {
				val := arg(args, "value")
				if seq, ok := AsSequence(val); ok {
					return IntValue{Val: seq.Len()}, nil
				}
				if m, ok := AsMapping(val); ok {
					return IntValue{Val: len(m.Keys())}, nil
				}
				return nil, &ShapeError{Path: "value", Want: SequenceShape, Got: val}
			})),
	}
}

// NewRootScope returns a scope holding every builtin.
func NewRootScope() *Scope {
	scope := NewScope(nil)
	for _, fn := range Builtins() {
		scope.Set(fn.Name, fn)
	}
	return scope
}

func must(fn *Function, err error) *Function {
	if err != nil {
		panic(err)
	}
	return fn
}

func arg(args *Result, name string) Value {
	if v, ok := args.Get(name); ok {
		return v
	}
	return AbsentValue{}
}

func list(args *Result, name string) ListValue {
	if l, ok := arg(args, name).(ListValue); ok {
		return l
	}
	return ListValue{}
}
