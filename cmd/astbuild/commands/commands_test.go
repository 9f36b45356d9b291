package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/config"
	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/signature"
)

// isolate runs the test in an empty working directory and home so no
// astbuild.toml from the machine leaks in
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	config.Reset()
	t.Cleanup(config.Reset)
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

const additionCode = `b.program([
  b.expressionStatement(
    b.binaryExpression(
      '+',
      b.literal(1),
      b.literal(2)
    )
  )
]);
`

func TestGenIsDefaultCommand(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "1 + 2")
	require.NoError(t, err)
	assert.Equal(t, additionCode, out)

	out, _, err = execute(t, "1 + 2", "gen", "-")
	require.NoError(t, err)
	assert.Equal(t, additionCode, out)
}

func TestGenFromFile(t *testing.T) {
	isolate(t)
	writeFile(t, "add.js", "1 + 2\n")

	out, _, err := execute(t, "", "gen", "add.js")
	require.NoError(t, err)
	assert.Equal(t, additionCode, out)

	out, _, err = execute(t, "", "add.js")
	require.NoError(t, err)
	assert.Equal(t, additionCode, out)
}

func TestGenWritesOutputFile(t *testing.T) {
	isolate(t)
	writeFile(t, "add.js", "1 + 2")

	out, _, err := execute(t, "", "gen", "add.js", "-o", filepath.Join("gen", "add.gen.js"))
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(filepath.Join("gen", "add.gen.js"))
	require.NoError(t, err)
	assert.Equal(t, additionCode, string(data))
}

func TestGenReplacements(t *testing.T) {
	isolate(t)
	writeFile(t, "tpl.js", "f(x)")

	positional, _, err := execute(t, "", "gen", "tpl.js", "x=y + 1")
	require.NoError(t, err)
	assert.Contains(t, positional, "b.identifier('y')")
	assert.Contains(t, positional, "b.literal(1)")
	assert.NotContains(t, positional, "b.identifier('x')")

	flagged, _, err := execute(t, "", "gen", "tpl.js", "--replace", "x=y + 1")
	require.NoError(t, err)
	assert.Equal(t, positional, flagged)
}

func TestGenReplacementPrecedence(t *testing.T) {
	isolate(t)
	writeFile(t, config.ProjectConfigName, "[replace]\npairs = \"x=1\"\n")
	writeFile(t, "x.js", "x")

	out, _, err := execute(t, "", "gen", "x.js")
	require.NoError(t, err)
	assert.Contains(t, out, "b.literal(1)")

	out, _, err = execute(t, "", "gen", "x.js", "-r", "x=2")
	require.NoError(t, err)
	assert.Contains(t, out, "b.literal(2)")

	out, _, err = execute(t, "", "gen", "x.js", "-r", "x=2", "x=3")
	require.NoError(t, err)
	assert.Contains(t, out, "b.literal(3)")
}

func TestGenNamespace(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "a", "gen", "-n", "t")
	require.NoError(t, err)
	assert.Equal(t, "t.program([t.expressionStatement(t.identifier('a'))]);\n", out)

	t.Setenv("ASTBUILD_BUILDER_NAMESPACE", "j")
	config.Reset()
	out, _, err = execute(t, "a", "gen")
	require.NoError(t, err)
	assert.Equal(t, "j.program([j.expressionStatement(j.identifier('a'))]);\n", out)
}

func TestGenProviders(t *testing.T) {
	isolate(t)
	writeFile(t, "add.js", "1 + 2")

	for _, provider := range []string{"static", "probe", "chain"} {
		out, _, err := execute(t, "", "gen", "add.js", "--provider", provider)
		require.NoError(t, err, provider)
		assert.Equal(t, additionCode, out, provider)
	}
}

func TestGenProbeFallsBackOnlyInChain(t *testing.T) {
	isolate(t)
	writeFile(t, "loop.js", "for (;;) break;")

	out, _, err := execute(t, "", "gen", "loop.js", "--provider", "probe")
	require.Error(t, err)
	assert.True(t, errors.IsSchemaDiscoveryError(err))
	assert.Contains(t, errors.FlattenHints(err), "--provider chain")
	assert.Empty(t, out)

	var report bytes.Buffer
	ReportError(&report, err)
	assert.Contains(t, report.String(), "--provider chain")

	out, _, err = execute(t, "", "gen", "loop.js", "--provider", "chain")
	require.NoError(t, err)
	assert.Contains(t, out, "b.breakStatement(")
}

func TestGenErrorsWriteNothing(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "1 +", "gen")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSyntax))
	assert.Empty(t, out)

	out, _, err = execute(t, "f(x)", "gen", "-", "x=a b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrReplacementParse))
	assert.Empty(t, out)

	_, _, err = execute(t, "a", "gen", "--provider", "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builder.provider")

	_, _, err = execute(t, "a", "gen", "-n", "not valid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builder.namespace")

	_, _, err = execute(t, "", "gen", "missing.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.js")
}

func TestParseThenGenFromJSON(t *testing.T) {
	isolate(t)
	writeFile(t, "add.js", "1 + 2")

	tree, _, err := execute(t, "", "parse", "add.js")
	require.NoError(t, err)
	assert.Contains(t, tree, `"BinaryExpression"`)
	writeFile(t, "add.json", tree)

	out, _, err := execute(t, "", "gen", "-f", "json", "add.json")
	require.NoError(t, err)
	assert.Equal(t, additionCode, out)
}

func TestParsePrint(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "if(a){b()}else c", "parse", "--print")
	require.NoError(t, err)
	assert.Equal(t, "if (a) {\n  b();\n} else c;\n", out)
}

func TestVerify(t *testing.T) {
	isolate(t)
	writeFile(t, "prog.js", `
var total = 0;
for (var i = 0; i < items.length; i++) {
  if (items[i].ok) total += items[i].n * 2;
}
log("total: " + total, /t+/g);
`)

	out, _, err := execute(t, "", "verify", "prog.js")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated code rebuilds prog.js")

	out, _, err = execute(t, "", "verify", "prog.js", "-n", "builders", "--provider", "chain")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated code rebuilds prog.js")
}

func TestVerifyRejectsReplacements(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "x", "verify", "-r", "x=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not accept replacements")
	assert.NotEmpty(t, errors.FlattenHints(err))
}

func TestSignaturesList(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "", "signatures", "list", "BinaryExpression", "ThisExpression")
	require.NoError(t, err)
	assert.Contains(t, out, "binaryExpression")
	assert.Contains(t, out, "operator, left, right")
	assert.Contains(t, out, "thisExpression")

	out, _, err = execute(t, "", "signatures", "list", "--provider", "probe", "BinaryExpression")
	require.NoError(t, err)
	assert.Contains(t, out, "operator, left, right")

	_, _, err = execute(t, "", "signatures", "list", "JSXElement")
	require.Error(t, err)
	assert.True(t, errors.IsSchemaDiscoveryError(err))
}

func TestSignaturesGenerate(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "", "signatures", "generate", "-o", "sigs.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "sigs.toml")

	static, err := signature.LoadFile("sigs.toml")
	require.NoError(t, err)
	assert.Equal(t, builders.Default().Kinds(), static.Kinds())
	for kind, want := range builders.Default().Signatures() {
		got, err := static.Signature(kind)
		require.NoError(t, err)
		assert.Equal(t, want, got, kind)
	}

	writeFile(t, "add.js", "1 + 2")
	out, _, err = execute(t, "", "gen", "add.js", "--signature-file", "sigs.toml")
	require.NoError(t, err)
	assert.Equal(t, additionCode, out)
}

func TestSignaturesGenerateToStdout(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "", "sig", "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema_version")
	assert.Contains(t, out, "[signatures]")
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "astbuild dev")
	assert.Contains(t, out, "schema 1.3.0")

	out, _, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"schema_version": "1.3.0"`)
}

func TestConfigCommands(t *testing.T) {
	isolate(t)
	writeFile(t, config.ProjectConfigName, "[builder]\nnamespace = \"t\"\n")

	out, _, err := execute(t, "", "config", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Namespace": "t"`)

	out, _, err = execute(t, "", "config", "show", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "namespace: t")

	out, _, err = execute(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	out, _, err = execute(t, "", "config", "where")
	require.NoError(t, err)
	assert.Contains(t, out, config.ProjectConfigName)

	_, _, err = execute(t, "", "config", "show", "--format", "ini")
	require.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "astbuild.toml")

	out, _, err := execute(t, "", "config", "init", path, "-c", writeFile(t, "base.toml", "[watch]\ndebounce_ms = 50\n"))
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Watch.DebounceMS)
	assert.Equal(t, "b", cfg.Builder.Namespace)
}

func TestExplicitConfigFile(t *testing.T) {
	isolate(t)
	writeFile(t, "custom.toml", "[builder]\nnamespace = \"k\"\n")

	out, _, err := execute(t, "a", "--config", "custom.toml")
	require.NoError(t, err)
	assert.Equal(t, "k.program([k.expressionStatement(k.identifier('a'))]);\n", out)

	_, _, err = execute(t, "a", "--config", "absent.toml")
	require.Error(t, err)
}

func TestWatchRegenerates(t *testing.T) {
	isolate(t)
	writeFile(t, "tpl.js", "a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"watch", "tpl.js", "-o", "tpl.gen.js", "--debounce", "10ms"})
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	readOutput := func() string {
		data, _ := os.ReadFile("tpl.gen.js")
		return string(data)
	}
	require.Eventually(t, func() bool {
		return readOutput() == "b.program([b.expressionStatement(b.identifier('a'))]);\n"
	}, 5*time.Second, 10*time.Millisecond)

	// give the watcher time to register before the edit
	time.Sleep(100 * time.Millisecond)
	writeFile(t, "tpl.js", "z")
	require.Eventually(t, func() bool {
		return readOutput() == "b.program([b.expressionStatement(b.identifier('z'))]);\n"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchNeedsFile(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "a", "watch", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard input")
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.WithDetail(
		errors.WithHint(errors.New("boom"), "try again"),
		"fragment: a b")
	ReportError(&buf, err)

	text := buf.String()
	assert.Contains(t, text, "boom")
	assert.Contains(t, text, "try again")
	assert.Contains(t, text, "fragment: a b")
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (testing.T.Chdir needs go1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
