package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
	"github.com/teranos/astbuild/jsparse"
	"github.com/teranos/astbuild/signature"
	"github.com/teranos/astbuild/synth"
)

// bogus satisfies synth.Expr without being one of the known shapes
type bogus struct {
	synth.Expr
}

func synthesize(t *testing.T, src string) synth.Expr {
	t.Helper()
	file, err := jsparse.ParseProgram(src)
	require.NoError(t, err)

	resolver := signature.NewResolver(signature.NewStaticProvider("static", builders.Default().Signatures()))
	expr, err := synth.New(resolver, "b").Synthesize(file, nil)
	require.NoError(t, err)
	return expr
}

func renderString(t *testing.T, expr synth.Expr) string {
	t.Helper()
	out, err := Render(expr, "")
	require.NoError(t, err)
	return out
}

func builderCall(name string, args ...synth.Expr) *synth.Call {
	return &synth.Call{
		Callee: &synth.Member{Object: &synth.Name{Name: "b"}, Property: &synth.Name{Name: name}},
		Args:   args,
	}
}

func num(f float64) *synth.Literal {
	return &synth.Literal{Value: estree.Number(f)}
}

func TestBinaryAddition(t *testing.T) {
	expr := synthesize(t, "1 + 2")

	want := `b.program([
  b.expressionStatement(
    b.binaryExpression(
      '+',
      b.literal(1),
      b.literal(2)
    )
  )
]);`
	assert.Equal(t, want, renderString(t, expr))

	// the operands themselves stay on one line
	ml, err := IsMultiline(builderCall("literal", num(1)))
	require.NoError(t, err)
	assert.False(t, ml)
}

func TestTwoStatementProgram(t *testing.T) {
	expr := synthesize(t, "a;\nb;")

	want := `b.program([
  b.expressionStatement(b.identifier('a')),
  b.expressionStatement(b.identifier('b'))
]);`
	assert.Equal(t, want, renderString(t, expr))
}

func TestRegexLiteralStaysOpaque(t *testing.T) {
	expr := synthesize(t, "/ab+c/i;")
	assert.Equal(t, "b.program([b.expressionStatement(b.literal(/ab+c/i))]);", renderString(t, expr))
}

func TestEmptyProgram(t *testing.T) {
	expr := synthesize(t, "")
	assert.Equal(t, "b.program([]);", renderString(t, expr))
}

func TestIsMultiline(t *testing.T) {
	tests := []struct {
		name string
		expr synth.Expr
		want bool
	}{
		{"name", &synth.Name{Name: "x"}, false},
		{"call without arguments", builderCall("thisExpression"), false},
		{"call with one argument", builderCall("literal", num(1)), false},
		{"call with two arguments", builderCall("x", num(1), num(2)), true},
		{"call with a multiline argument", builderCall("x", builderCall("y", num(1), num(2))), true},
		{"empty array", &synth.Array{}, false},
		{"array with one element", &synth.Array{Elements: []synth.Expr{num(1)}}, false},
		{"array with two elements", &synth.Array{Elements: []synth.Expr{num(1), num(2)}}, true},
		{"statement follows its expression", &synth.Statement{Expr: builderCall("x", num(1), num(2))}, true},
		{"member with multiline object", &synth.Member{Object: builderCall("x", num(1), num(2)), Property: &synth.Name{Name: "p"}}, true},
		{"literal with raw line break", &synth.Literal{Raw: "`a\nb`"}, true},
		{"string literal with newline is escaped", &synth.Literal{Value: estree.String("a\nb")}, false},
		{"record", record("cooked", "a", "raw", "a"), false},
		{"record with raw line break", &synth.Record{Fields: []synth.RecordField{{Key: "k", Value: &synth.Literal{Raw: "`\n`"}}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsMultiline(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderShapes(t *testing.T) {
	tests := []struct {
		name string
		expr synth.Expr
		want string
	}{
		{"computed member", &synth.Member{Object: &synth.Name{Name: "a"}, Property: num(0), Computed: true}, "a[0]"},
		{"single-line array", &synth.Array{Elements: []synth.Expr{num(1)}}, "[1]"},
		{"multiline array", &synth.Array{Elements: []synth.Expr{num(1), num(2)}}, "[\n  1,\n  2\n]"},
		{"array of arrays", &synth.Array{Elements: []synth.Expr{
			&synth.Array{Elements: []synth.Expr{num(1), num(2)}},
			num(3),
		}}, "[\n  [\n    1,\n    2\n  ],\n  3\n]"},
		{"call with sole multiline array", builderCall("program", &synth.Array{Elements: []synth.Expr{num(1), num(2)}}), "b.program([\n  1,\n  2\n])"},
		{"literals", builderCall("x", &synth.Literal{Value: estree.Bool(true)}, &synth.Literal{Value: estree.Null{}}, &synth.Literal{Value: estree.Number(-0.5)}), "b.x(\n  true,\n  null,\n  -0.5\n)"},
		{"statement", &synth.Statement{Expr: builderCall("thisExpression")}, "b.thisExpression();"},
		{"record", record("cooked", "a\n", "raw", `a\n`), `{cooked: 'a\n', raw: 'a\\n'}`},
		{"empty record", &synth.Record{}, "{}"},
		{"record with quoted keys", record("a-b", "x", "1st", "y"), `{'a-b': 'x', '1st': 'y'}`},
		{"record inside a call", builderCall("templateElement", record("raw", "x"), &synth.Literal{Value: estree.Bool(true)}),
			"b.templateElement(\n  {raw: 'x'},\n  true\n)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderString(t, tt.expr))
		})
	}
}

// record builds a Record from key, value string pairs
func record(kv ...string) *synth.Record {
	r := &synth.Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Fields = append(r.Fields, synth.RecordField{Key: kv[i], Value: &synth.Literal{Value: estree.String(kv[i+1])}})
	}
	return r
}

func TestPropertyKey(t *testing.T) {
	assert.Equal(t, "raw", PropertyKey("raw"))
	assert.Equal(t, "$_x1", PropertyKey("$_x1"))
	assert.Equal(t, "'1x'", PropertyKey("1x"))
	assert.Equal(t, "'a b'", PropertyKey("a b"))
	assert.Equal(t, "''", PropertyKey(""))
}

func TestRenderIndent(t *testing.T) {
	out, err := Render(builderCall("x", num(1), num(2)), "    ")
	require.NoError(t, err)
	assert.Equal(t, "b.x(\n      1,\n      2\n    )", out)
}

func TestRenderDeterministic(t *testing.T) {
	src := `
function f(a, b) {
  if (a) { return [a, , b] } else return {k: /x/g, "s": 'it\'s'};
}
for (var i = 0; i < 3; i++) f(i, i * 2);
`
	first := renderString(t, synthesize(t, src))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, renderString(t, synthesize(t, src)))
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `'plain'`},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"line\nbreak\r\t", `'line\nbreak\r\t'`},
		{"bell\x07", `'bell\x07'`},
		{"nul\x00", `'nul\0'`},
		{"nul\x001", `'nul\x001'`},
		{"sep\u2028", `'sep\u2028'`},
		{"unicodé", `'unicodé'`},
		{`"double"`, `'"double"'`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestUnsupportedExpression(t *testing.T) {
	_, err := IsMultiline(bogus{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedLayout))

	_, err = Render(builderCall("x", bogus{}), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedLayout))

	_, err = Render(nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedLayout))
}

func TestUnprintableLiteral(t *testing.T) {
	_, err := Render(&synth.Literal{Value: estree.Object{"a": estree.Number(1)}}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedLayout))
}
