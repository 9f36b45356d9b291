package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/errors"
)

// countingProber records how often each kind is probed
type countingProber struct {
	inner Prober
	calls map[string]int
}

func newCountingProber(inner Prober) *countingProber {
	return &countingProber{inner: inner, calls: map[string]int{}}
}

func (c *countingProber) Probe(kind string) error {
	c.calls[kind]++
	return c.inner.Probe(kind)
}

type fixedMessage string

func (f fixedMessage) Probe(string) error { return errors.New(string(f)) }

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		message string
		want    []string
		wantErr bool
	}{
		{
			name:    "conventional message",
			kind:    "BinaryExpression",
			message: `no value or default function given for field "operator" of BinaryExpression("operator", "left", "right")`,
			want:    []string{"operator", "left", "right"},
		},
		{
			name:    "kind must sit on an identifier boundary",
			kind:    "Expression",
			message: `field "x" of BinaryExpression("operator") while building Expression("a", "b")`,
			want:    []string{"a", "b"},
		},
		{
			name:    "substring only",
			kind:    "Expression",
			message: `field "operator" of BinaryExpression("operator", "left", "right")`,
			wantErr: true,
		},
		{
			name:    "empty parameter list",
			kind:    "Foo",
			message: `Foo()`,
			want:    []string{},
		},
		{
			name:    "missing closing parenthesis",
			kind:    "Identifier",
			message: `field "name" of Identifier("name"`,
			wantErr: true,
		},
		{
			name:    "escaped quote in name",
			kind:    "Odd",
			message: `Odd("a\"b")`,
			want:    []string{`a"b`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.kind, tt.message)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsSchemaDiscoveryError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbeProviderAgainstBuilderLibrary(t *testing.T) {
	p := NewProbeProvider(builders.Default())

	params, err := p.Signature("VariableDeclaration")
	require.NoError(t, err)
	assert.Equal(t, []string{"kind", "declarations"}, params)

	params, err = p.Signature("ThisExpression")
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestProbeProviderFailures(t *testing.T) {
	p := NewProbeProvider(builders.Default())

	// every parameter defaulted: the probe call succeeds
	_, err := p.Signature("BreakStatement")
	require.Error(t, err)
	assert.True(t, errors.IsSchemaDiscoveryError(err))
	assert.Contains(t, err.Error(), "accepted zero arguments")
	assert.Contains(t, errors.FlattenHints(err), "--provider chain")

	// unknown kind: the builder error carries no parameter list
	_, err = p.Signature("TotallyUnknownNode")
	require.Error(t, err)
	assert.True(t, errors.IsSchemaDiscoveryError(err))

	_, err = NewProbeProvider(fixedMessage("Weird(\"a\"")).Signature("Weird")
	assert.ErrorContains(t, err, "no closing parenthesis")
}

func TestResolverMemoizes(t *testing.T) {
	prober := newCountingProber(builders.Default())
	r := NewResolver(NewProbeProvider(prober))

	first, err := r.Resolve("BinaryExpression")
	require.NoError(t, err)
	second, err := r.Resolve("BinaryExpression")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, prober.calls["BinaryExpression"])
}

func TestResolverDoesNotCacheFailures(t *testing.T) {
	prober := newCountingProber(builders.Default())
	r := NewResolver(NewProbeProvider(prober))

	_, err := r.Resolve("Nope")
	require.Error(t, err)
	_, err = r.Resolve("Nope")
	require.Error(t, err)
	assert.Equal(t, 2, prober.calls["Nope"])
}
