package notation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/binder/pkg/binder"
)

func TestParsePatternRoundTrip(t *testing.T) {
	for _, example := range []struct {
		Source string
		Want   string
	}{
		{"[gold, silver, bronze]", "[gold, silver, bronze]"},
		{"[first, , , fourth]", "[first, , , fourth]"},
		{"[winner, ...others]", "[winner, ...others]"},
		{"[a,]", "[a]"},
		{"[a, ,]", "[a, ,]"},
		{"(x, y = 1)", "[x, y = 1]"},
		{"(person, greeting = 'hi', punctuation = '!')", `[person, greeting = "hi", punctuation = "!"]`},
		{"{country: nation, title: honorific}", "{country: nation, title: honorific}"},
		{"{firstt, last, ...other}", "{firstt, last, ...other}"},
		{"[{first: goldWinner}, {country}]", "[{first: goldWinner}, {country}]"},
		{"({first, last, title})", "[{first, last, title}]"},
		{"{'full name': name, 0: zero}", `{"full name": name, "0": zero}`},
		{"(x, y = [1, 2, 3])", "[x, y = [1, 2, 3]]"},
		{"(a, b = a)", "[a, b = a]"},
		{"{size: {w, h} = {w: 1, h: 2}}", "{size: {w, h} = {w: 1, h: 2}}"},
		{"[x = 1.0]", "[x = 1.0]"},
		{"[x = -2.50]", "[x = -2.5]"},
		{`[x = "a\u0001b"]`, `[x = "a\x01b"]`},
		{`[x = "é\u2028"]`, `[x = "é\u2028"]`},
		{`{'tab\tkey': v = 'line\nbreak'}`, `{"tab\tkey": v = "line\nbreak"}`},
	} {
		t.Run(example.Source, func(t *testing.T) {
			pat, err := ParsePattern(example.Source)
			require.NoError(t, err)
			assert.Equal(t, example.Want, pat.String())

			again, err := ParsePattern(pat.String())
			require.NoError(t, err)
			assert.Equal(t, pat.String(), again.String())
		})
	}
}

func TestParsePatternRoundTripKeepsValues(t *testing.T) {
	for _, val := range []binder.Value{
		binder.StringValue{Val: "a\x01b"},
		binder.StringValue{Val: "é\u2028\u00a0"},
		binder.StringValue{Val: `quote " and 'single'`},
		binder.FloatValue{Val: 3},
		binder.FloatValue{Val: 1e21},
		binder.IntValue{Val: -7},
	} {
		t.Run(binder.Inspect(val), func(t *testing.T) {
			pat := binder.MustPattern(binder.Sequence(binder.Named("x").WithDefault(binder.Lit{Value: val})))

			again, err := ParsePattern(pat.String())
			require.NoError(t, err)
			require.Len(t, again.Slots, 1)
			assert.Equal(t, binder.Lit{Value: val}, again.Slots[0].Default)
		})
	}
}

func TestParsePatternStructure(t *testing.T) {
	pat, err := ParsePattern("[first, , , fourth]")
	require.NoError(t, err)
	require.Len(t, pat.Slots, 4)
	assert.Equal(t, binder.SkipSlot, pat.Slots[1].Kind)
	assert.Equal(t, binder.SkipSlot, pat.Slots[2].Kind)

	pat, err = ParsePattern("{country: nation = 'none'}")
	require.NoError(t, err)
	require.Len(t, pat.Slots, 1)
	assert.Equal(t, binder.MappingStyle, pat.Style)
	assert.Equal(t, "country", pat.Slots[0].Key)
	assert.Equal(t, "nation", pat.Slots[0].Name)
	assert.Equal(t, binder.Lit{Value: binder.StringValue{Val: "none"}}, pat.Slots[0].Default)
}

func TestParseExpr(t *testing.T) {
	ctx := context.Background()
	scope := binder.NewRootScope()
	scope.Set("canine", binder.NewRecord(
		binder.Keyed[binder.Value]{Key: "family", Value: binder.StringValue{Val: "Caninae"}},
		binder.Keyed[binder.Value]{Key: "furry", Value: binder.BoolValue{Val: true}},
		binder.Keyed[binder.Value]{Key: "legs", Value: binder.IntValue{Val: 4}},
	))

	for _, example := range []struct {
		Source string
		Want   string
	}{
		{"42", "42"},
		{"-1.5", "-1.5"},
		{"'it\\'s'", `"it's"`},
		{`"\x41\u00e9\q"`, `"Aéq"`},
		{"2.0", "2.0"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[...[1, 2, 3], 4, 5, 6]", "[1, 2, 3, 4, 5, 6]"},
		{"[...'hello', {a: 1}]", `["h", "e", "l", "l", "o", {a: 1}]`},
		{"{...canine, legs: 3}", `{family: "Caninae", furry: true, legs: 3}`},
		{"{...canine, isPet: true}", `{family: "Caninae", furry: true, legs: 4, isPet: true}`},
		{"{legs: 3, ...canine}", `{legs: 4, family: "Caninae", furry: true}`},
		{"multiply(3, 4)", "12"},
		{"multiply(3)", "3"},
		{"sum(...[1, 2, 3])", "6"},
		{"(greet)('Ann')", `"hi, Ann !"`},
		{"[null, undefined, true, false]", "[null, undefined, true, false]"},
	} {
		t.Run(example.Source, func(t *testing.T) {
			expr, err := ParseExpr(example.Source)
			require.NoError(t, err)
			val, err := expr.Eval(ctx, scope)
			require.NoError(t, err)
			assert.Equal(t, example.Want, binder.Inspect(val))
		})
	}
}

func TestParseStatement(t *testing.T) {
	stmt, err := ParseStatement("const [gold, silver, bronze] = raceResults")
	require.NoError(t, err)
	let, ok := stmt.(Let)
	require.True(t, ok)
	assert.Equal(t, "let [gold, silver, bronze] = raceResults", let.String())

	stmt, err = ParseStatement("let colors = ['red', 'orange']")
	require.NoError(t, err)
	let = stmt.(Let)
	assert.Equal(t, "colors", let.Name)
	assert.Nil(t, let.Pattern)

	stmt, err = ParseStatement("giveMeFour(...colors) // spread")
	require.NoError(t, err)
	assert.Equal(t, "giveMeFour(...colors)", stmt.String())
}

func TestParseErrors(t *testing.T) {
	pattern := func(src string) error {
		_, err := ParsePattern(src)
		return err
	}
	statement := func(src string) error {
		_, err := ParseStatement(src)
		return err
	}

	for _, example := range []struct {
		Source     string
		Parse      func(string) error
		Message    string
		Incomplete bool
	}{
		{"[a, b", pattern, `1:6: unexpected end of input: expected "," or "]"`, true},
		{"[a, b", statement, `1:6: unexpected end of input: expected "," or "]"`, true},
		{"{a: 1}", pattern, `1:5: unexpected "1", expected a name`, false},
		{"(a, , b)", pattern, `1:5: unexpected ",", expected a parameter`, false},
		{"[a, a]", pattern, `1:1: duplicate name "a" in pattern`, false},
		{"[...rest, a]", pattern, `1:1: rest slot must be last: ...rest`, false},
		{"[a, ...rest,]", pattern, `1:12: rest slot must be last: trailing comma after ...rest`, false},
		{"{a, ...rest,}", pattern, `1:12: rest slot must be last: trailing comma after ...rest`, false},
		{"(a, ...rest,)", pattern, `1:12: rest slot must be last: trailing comma after ...rest`, false},
		{"{'x'}", pattern, `1:2: key 'x' needs a name to bind to`, false},
		{"[a] extra", pattern, `1:5: unexpected "extra", expected end of input`, false},
		{"'open", statement, `1:1: unterminated string`, false},
		{"[a, #]", pattern, `1:5: unexpected character '#'`, false},
		{"let = 1", statement, `1:5: unexpected "=", expected a pattern`, false},
		{"let x =", statement, `1:8: unexpected end of input: expected an expression`, true},
	} {
		t.Run(example.Source, func(t *testing.T) {
			err := example.Parse(example.Source)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, example.Message, syntaxErr.Error())
			assert.Equal(t, example.Incomplete, IsIncomplete(err))
		})
	}
}

func TestParseErrorsWrapBinderErrors(t *testing.T) {
	_, err := ParsePattern("[a, {a}]")
	assert.True(t, errors.Is(err, binder.ErrDuplicateName))

	_, err = ParsePattern("(...xs, y)")
	assert.True(t, errors.Is(err, binder.ErrRestNotLast))
}

func TestFormatWithHighlighting(t *testing.T) {
	_, err := ParsePattern("[a,\n b c]")
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	out := syntaxErr.FormatWithHighlighting()
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, " b c]")
	assert.Contains(t, out, "^")
	assert.Equal(t, 2, syntaxErr.Location.Line)
	assert.Equal(t, 4, syntaxErr.Location.Column)
}
