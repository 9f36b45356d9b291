package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
)

func TestDefaultLibraryLoads(t *testing.T) {
	lib := Default()
	assert.Equal(t, "1.3.0", lib.Version().String())
	assert.Contains(t, lib.Kinds(), "BinaryExpression")

	def, ok := lib.Def("BinaryExpression")
	require.True(t, ok)
	assert.Equal(t, []string{"operator", "left", "right"}, def.Build)
}

func TestBuilderName(t *testing.T) {
	tests := map[string]string{
		"BinaryExpression": "binaryExpression",
		"Identifier":       "identifier",
		"JSXElement":       "jsxElement",
		"Program":          "program",
		"ID":               "id",
		"lower":            "lower",
	}
	for kind, want := range tests {
		assert.Equal(t, want, BuilderName(kind), kind)
	}

	kind, ok := Default().KindFor("variableDeclarator")
	require.True(t, ok)
	assert.Equal(t, "VariableDeclarator", kind)
}

func TestBuildAppliesDefaults(t *testing.T) {
	lib := Default()

	n, err := lib.Build("IfStatement", estree.Ident("a"), estree.New("BlockStatement").Set("body", estree.List{}))
	require.NoError(t, err)
	assert.Equal(t, estree.Null{}, n.Fields["alternate"])

	prop, err := lib.Build("Property", estree.String("init"), estree.Ident("k"), estree.Lit(estree.Number(1)))
	require.NoError(t, err)
	assert.Equal(t, estree.Bool(false), prop.Fields["computed"])
	assert.Equal(t, estree.Bool(false), prop.Fields["shorthand"])
}

func TestBuildMissingRequiredFieldMessage(t *testing.T) {
	err := Default().Probe("BinaryExpression")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBuild))
	assert.Contains(t, err.Error(),
		`no value or default function given for field "operator" of BinaryExpression("operator", "left", "right")`)
}

func TestProbeZeroArgumentBuilderSucceeds(t *testing.T) {
	assert.NoError(t, Default().Probe("ThisExpression"))
	assert.NoError(t, Default().Probe("BreakStatement"), "all parameters defaulted")
}

func TestBuildValidatesArguments(t *testing.T) {
	lib := Default()

	_, err := lib.Build("Identifier", estree.Number(3))
	assert.ErrorContains(t, err, `identifier: field "name" expects string`)

	_, err = lib.Build("Identifier", estree.String("a"), estree.String("b"))
	assert.ErrorContains(t, err, "too many arguments to identifier")

	_, err = lib.Build("ArrayExpression", estree.List{estree.Number(1)})
	assert.ErrorContains(t, err, "expects nodes")

	_, err = lib.Build("NoSuchExpression")
	assert.ErrorContains(t, err, "no builder for node type NoSuchExpression")

	lit, err := lib.Build("Literal", &estree.RegExp{Pattern: "a", Flags: "g"})
	require.NoError(t, err)
	assert.IsType(t, &estree.RegExp{}, lit.Fields["value"])
}

func TestBuildByName(t *testing.T) {
	n, err := Default().BuildByName("binaryExpression",
		estree.String("+"), estree.Lit(estree.Number(1)), estree.Lit(estree.Number(2)))
	require.NoError(t, err)
	assert.Equal(t, "BinaryExpression", n.Type)

	_, err = Default().BuildByName("nope")
	assert.Error(t, err)
}

func TestLoadRejectsBadSchemas(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unsupported version", "version: 2.0.0\nnodes: []\n", "not supported"},
		{"bad version", "version: banana\nnodes: []\n", "invalid builder schema version"},
		{"undefined param", "version: 1.0.0\nnodes:\n  - type: X\n    build: [a]\n", `build parameter "a"`},
		{"unknown kind", "version: 1.0.0\nnodes:\n  - type: X\n    build: [a]\n    fields:\n      a: {kind: widget}\n", "unknown field kind"},
		{"orphan field", "version: 1.0.0\nnodes:\n  - type: X\n    build: []\n    fields:\n      a: {kind: node}\n", "neither a build parameter"},
		{"duplicate", "version: 1.0.0\nnodes:\n  - type: X\n  - type: X\n", "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestBuildRecordField(t *testing.T) {
	lib := Default()

	value := estree.Object{"cooked": estree.String("a\n"), "raw": estree.String(`a\n`)}
	el, err := lib.Build("TemplateElement", value, estree.Bool(true))
	require.NoError(t, err)
	assert.Equal(t, value, el.Fields["value"])

	_, err = lib.Build("TemplateElement", estree.String("a"), estree.Bool(true))
	assert.ErrorContains(t, err, `templateElement: field "value" expects record`)

	nested := estree.Object{"raw": estree.Ident("a")}
	_, err = lib.Build("TemplateElement", nested, estree.Bool(true))
	assert.ErrorContains(t, err, "expects record")
}

func TestBuildClassAndPatternDefaults(t *testing.T) {
	lib := Default()

	body := estree.New("ClassBody").Set("body", estree.List{})
	class, err := lib.Build("ClassExpression", estree.Null{}, body)
	require.NoError(t, err)
	assert.Equal(t, estree.Null{}, class.Fields["superClass"])

	method, err := lib.Build("MethodDefinition", estree.String("method"), estree.Ident("m"),
		estree.New("FunctionExpression"))
	require.NoError(t, err)
	assert.Equal(t, estree.Bool(false), method.Fields["static"])
	assert.Equal(t, estree.Bool(false), method.Fields["computed"])

	assert.NoError(t, lib.Probe("Super"))
	assert.ErrorContains(t, lib.Probe("ObjectPattern"),
		`no value or default function given for field "properties" of ObjectPattern("properties")`)
}
