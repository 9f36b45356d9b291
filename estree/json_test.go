package estree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acornOnePlusTwo = `{
  "type": "Program", "start": 0, "end": 5, "sourceType": "script",
  "body": [{
    "type": "ExpressionStatement", "start": 0, "end": 5,
    "expression": {
      "type": "BinaryExpression", "start": 0, "end": 5,
      "left": {"type": "Literal", "start": 0, "end": 1, "value": 1, "raw": "1"},
      "operator": "+",
      "right": {"type": "Literal", "start": 4, "end": 5, "value": 2, "raw": "2"}
    }
  }]
}`

func TestDecodeProgramWrapsBareProgram(t *testing.T) {
	file, err := DecodeProgram([]byte(acornOnePlusTwo))
	require.NoError(t, err)
	assert.Equal(t, "File", file.Type)

	program := file.Node("program")
	require.NotNil(t, program)
	body := program.List("body")
	require.Len(t, body, 1)

	bin := body[0].(*Node).Node("expression")
	assert.Equal(t, "BinaryExpression", bin.Type)
	assert.Equal(t, "+", bin.Str("operator"))
	assert.Equal(t, Number(1), bin.Node("left").Fields["value"])

	_, hasStart := bin.Get("start")
	assert.False(t, hasStart, "position metadata must be dropped")
}

func TestDecodeRegexLiteral(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"type":"Literal","value":{},"raw":"/ab+c/i","regex":{"pattern":"ab+c","flags":"i"}}`))
	require.NoError(t, err)

	lit := v.(*Node)
	re, ok := lit.Fields["value"].(*RegExp)
	require.True(t, ok)
	assert.Equal(t, "/ab+c/i", re.String())
	_, hasRegex := lit.Get("regex")
	assert.False(t, hasRegex)
}

func TestDecodeUntypedRecordIsObject(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"raw":"a","cooked":"a"}`))
	require.NoError(t, err)
	assert.IsType(t, Object{}, v)
	assert.Equal(t, "object{cooked, raw}", Describe(v))
}

func TestDecodeProgramRejectsOtherRoots(t *testing.T) {
	_, err := DecodeProgram([]byte(`{"type":"Identifier","name":"x"}`))
	assert.Error(t, err)

	_, err = DecodeProgram([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = DecodeProgram([]byte(`{not json`))
	assert.Error(t, err)
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	tree := File(New("Program").Set("body", List{
		New("ExpressionStatement").Set("expression", Lit(&RegExp{Pattern: "a|b", Flags: "g"})),
	}))

	data, err := EncodeJSON(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"regex"`)

	back, err := DecodeProgram(data)
	require.NoError(t, err)
	stmt := back.Node("program").List("body")[0].(*Node)
	re := stmt.Node("expression").Fields["value"].(*RegExp)
	assert.Equal(t, "/a|b/g", re.String())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0, "0"},
		{1.5, "1.5"},
		{1000000, "1000000"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1e21, "1e+21"},
		{-2.25, "-2.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}
