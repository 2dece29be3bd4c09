package binder

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/binder/pkg/ioctx"
)

func call(t *testing.T, name string, args ...Value) (Value, error) {
	t.Helper()
	fn, ok := NewRootScope().Get(name)
	require.True(t, ok, "builtin %s not found", name)
	return fn.(Callable).Call(context.Background(), args...)
}

func TestBuiltinMultiply(t *testing.T) {
	out, err := call(t, "multiply", num(3), num(4))
	require.NoError(t, err)
	assert.Equal(t, num(12), out)

	out, err = call(t, "multiply", num(3))
	require.NoError(t, err)
	assert.Equal(t, num(3), out)
}

func TestBuiltinSumProduct(t *testing.T) {
	out, err := call(t, "sum", num(1), num(2), num(3), num(4), num(5))
	require.NoError(t, err)
	assert.Equal(t, num(15), out)

	out, err = call(t, "product", num(2), num(3), num(4))
	require.NoError(t, err)
	assert.Equal(t, num(24), out)

	_, err = call(t, "sum")
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestBuiltinAddNullish(t *testing.T) {
	for _, args := range [][]Value{
		{num(5)},
		{num(5), AbsentValue{}},
		{num(5), NullValue{}},
	} {
		out, err := call(t, "add", args...)
		require.NoError(t, err)
		assert.Equal(t, num(5), out)
	}

	out, err := call(t, "add", num(5), num(3))
	require.NoError(t, err)
	assert.Equal(t, num(8), out)
}

func TestBuiltinGreet(t *testing.T) {
	out, err := call(t, "greet", str("Ahmet"))
	require.NoError(t, err)
	assert.Equal(t, str("hi, Ahmet !"), out)

	out, err = call(t, "greet", str("Ahmet"), str("Merhaba"), str("?"))
	require.NoError(t, err)
	assert.Equal(t, str("Merhaba, Ahmet ?"), out)
}

func TestBuiltinFullName(t *testing.T) {
	out, err := call(t, "fullName", str("Eliud"), str("Kipchoge"), str("Dr."), str("Sir"))
	require.NoError(t, err)
	assert.Equal(t, `{first: "Eliud", last: "Kipchoge", titles: ["Dr.", "Sir"]}`, out.String())
}

func TestBuiltinGiveMeFour(t *testing.T) {
	colors := strs("red", "orange", "yellow", "green")

	t.Run("without spread", func(t *testing.T) {
		out, err := call(t, "giveMeFour", colors)
		require.NoError(t, err)
		assert.Equal(t, `{a: ["red", "orange", "yellow", "green"], b: undefined, c: undefined, d: undefined}`, out.String())
	})

	t.Run("with spread", func(t *testing.T) {
		out, err := CallExpr{
			Fn:   Ref{Name: "giveMeFour"},
			Args: []Elem{{Spread: true, Expr: Lit{colors}}},
		}.Eval(context.Background(), NewRootScope())
		require.NoError(t, err)
		assert.Equal(t, `{a: "red", b: "orange", c: "yellow", d: "green"}`, out.String())
	})

	t.Run("spreading a string", func(t *testing.T) {
		out, err := CallExpr{
			Fn:   Ref{Name: "giveMeFour"},
			Args: []Elem{{Spread: true, Expr: Lit{str("GOAT")}}},
		}.Eval(context.Background(), NewRootScope())
		require.NoError(t, err)
		assert.Equal(t, `{a: "G", b: "O", c: "A", d: "T"}`, out.String())
	})
}

func TestBuiltinParameterDestructuring(t *testing.T) {
	runner := rec(
		"first", str("Eliud"),
		"last", str("Kipchoge"),
		"country", str("Kenya"),
		"title", str("Elder of the Order of the Golden Heart of Kenya"),
	)
	out, err := call(t, "describe", runner)
	require.NoError(t, err)
	assert.Equal(t, str("Eliud Kipchoge, Elder of the Order of the Golden Heart of Kenya"), out)

	out, err = call(t, "parseResponse", strs("HTTP/1.1", "200 OK", "application/json"))
	require.NoError(t, err)
	assert.Equal(t, str("Status: 200 OK"), out)

	_, err = call(t, "describe")
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.EqualError(t, err, "describe: cannot destructure undefined at [0] as a mapping")
}

func TestBuiltinReduce(t *testing.T) {
	scope := NewRootScope()
	add, _ := scope.Get("add")

	out, err := call(t, "reduce", nums(1, 2, 3), add)
	require.NoError(t, err)
	assert.Equal(t, num(6), out)

	out, err = call(t, "reduce", nums(), add, num(100))
	require.NoError(t, err)
	assert.Equal(t, num(100), out)

	_, err = call(t, "reduce", nums(), add)
	assert.ErrorIs(t, err, ErrEmptySequence)

	_, err = call(t, "reduce", nums(1, 2), num(1))
	assert.ErrorIs(t, err, ErrNotCallable)
}

func TestBuiltinConcatMergeLen(t *testing.T) {
	out, err := call(t, "concat", nums(1, 2, 3), nums(4, 5, 6))
	require.NoError(t, err)
	assert.Equal(t, nums(1, 2, 3, 4, 5, 6), out)

	out, err = call(t, "merge", rec("a", num(1), "b", num(2)), rec("c", num(3), "d", num(4)))
	require.NoError(t, err)
	assert.Equal(t, "{a: 1, b: 2, c: 3, d: 4}", out.String())

	out, err = call(t, "len", str("GOAT"))
	require.NoError(t, err)
	assert.Equal(t, num(4), out)

	out, err = call(t, "len", rec("a", num(1)))
	require.NoError(t, err)
	assert.Equal(t, num(1), out)
}

func TestFunctionString(t *testing.T) {
	fn, ok := NewRootScope().Get("greet")
	require.True(t, ok)
	assert.Equal(t, `greet(person, greeting = "hi", punctuation = "!")`, fn.String())

	fn, _ = NewRootScope().Get("describe")
	assert.Equal(t, "describe({first, last, title})", fn.String())
}

func TestDefineRejectsBadParams(t *testing.T) {
	_, err := Define("broken").
		Params(Rest("xs"), Named("y")).
		Impl(func(context.Context, *Result) (Value, error) { return NullValue{}, nil })
	assert.ErrorIs(t, err, ErrRestNotLast)
}

func TestBuiltinPrint(t *testing.T) {
	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	fn, _ := NewRootScope().Get("print")
	val, err := fn.(Callable).Call(ctx, str("hello"), num(42), strs("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, AbsentValue{}, val)
	assert.Equal(t, "hello 42 [\"a\", \"b\"]\n", out.String())
}
