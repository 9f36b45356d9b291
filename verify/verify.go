// Package verify checks generated builder code by evaluating it against
// the builder library and comparing the rebuilt tree with the input.
package verify

import (
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
	"github.com/teranos/astbuild/jsparse"
	"github.com/teranos/astbuild/jsprint"
	"github.com/teranos/astbuild/logger"
)

// Verifier evaluates generated code with only the builder namespace bound
type Verifier struct {
	lib       *builders.Library
	namespace string
	log       *zap.SugaredLogger
}

// Result is the outcome of a verification
type Result struct {
	// Expected is the canonical print of the input tree
	Expected string
	// Actual is the canonical print of the tree the code rebuilds
	Actual string
	// Diff is a unified diff from Expected to Actual, empty on a match
	Diff string
}

// Match reports whether the generated code reproduces its input
func (r *Result) Match() bool {
	return r.Expected == r.Actual
}

// New returns a verifier binding namespace to lib
func New(lib *builders.Library, namespace string) *Verifier {
	return &Verifier{
		lib:       lib,
		namespace: namespace,
		log:       logger.ComponentLogger("verify"),
	}
}

// Evaluate runs generated code and returns the value of its single
// expression statement.
func (v *Verifier) Evaluate(code string) (estree.Value, error) {
	file, err := jsparse.ParseProgram(code)
	if err != nil {
		return nil, errors.Wrap(err, "parsing generated code")
	}
	body := file.Node("program").List("body")
	if len(body) != 1 {
		return nil, errors.Newf("generated code must be a single statement, found %d", len(body))
	}
	stmt, _ := body[0].(*estree.Node)
	if stmt == nil || stmt.Type != "ExpressionStatement" {
		return nil, errors.Newf("generated code must be an expression statement, found %s", estree.Describe(body[0]))
	}
	return v.eval(stmt.Node("expression"))
}

func (v *Verifier) eval(n *estree.Node) (estree.Value, error) {
	if n == nil {
		return nil, errors.New("missing expression")
	}
	switch n.Type {
	case "Literal":
		val, _ := n.Get("value")
		return val, nil

	case "ArrayExpression":
		elements := n.List("elements")
		out := make(estree.List, len(elements))
		for i, el := range elements {
			if estree.IsNull(el) {
				out[i] = estree.Null{}
				continue
			}
			val, err := v.eval(el.(*estree.Node))
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			out[i] = val
		}
		return out, nil

	case "ObjectExpression":
		return v.evalRecord(n)

	case "UnaryExpression":
		if n.Str("operator") == "-" {
			arg, err := v.eval(n.Node("argument"))
			if err != nil {
				return nil, err
			}
			if num, ok := arg.(estree.Number); ok {
				return -num, nil
			}
		}

	case "CallExpression":
		name, err := v.builderName(n.Node("callee"))
		if err != nil {
			return nil, err
		}
		rawArgs := n.List("arguments")
		args := make([]estree.Value, len(rawArgs))
		for i, a := range rawArgs {
			arg, _ := a.(*estree.Node)
			val, err := v.eval(arg)
			if err != nil {
				return nil, errors.Wrapf(err, "%s argument %d", name, i)
			}
			args[i] = val
		}
		return v.lib.BuildByName(name, args...)

	case "Identifier":
		return nil, errors.WithHintf(
			errors.Newf("unbound identifier %s", n.Str("name")),
			"only the builder namespace %q is in scope", v.namespace)
	}
	return nil, errors.Newf("cannot evaluate %s in generated code", n.Type)
}

// evalRecord evaluates an object literal of primitive values, the form a
// record field takes in generated code
func (v *Verifier) evalRecord(n *estree.Node) (estree.Value, error) {
	out := estree.Object{}
	for i, item := range n.List("properties") {
		prop, _ := item.(*estree.Node)
		if prop == nil || prop.Type != "Property" || prop.Str("kind") != "init" || prop.Bool("computed") || prop.Bool("method") {
			return nil, errors.Newf("record entry %d must be a plain key: value pair", i)
		}
		key := prop.Node("key")
		var name string
		switch {
		case key != nil && key.Type == "Identifier":
			name = key.Str("name")
		case key != nil && key.Type == "Literal":
			k, _ := key.Get("value")
			s, ok := k.(estree.String)
			if !ok {
				return nil, errors.Newf("record key %s must be a name or string", estree.Describe(k))
			}
			name = string(s)
		default:
			return nil, errors.Newf("record entry %d has an unsupported key", i)
		}
		val, err := v.eval(prop.Node("value"))
		if err != nil {
			return nil, errors.Wrapf(err, "record entry %s", name)
		}
		if !estree.IsPrimitive(val) {
			return nil, errors.Newf("record entry %s must be a primitive, got %s", name, estree.Describe(val))
		}
		out[name] = val
	}
	return out, nil
}

// builderName accepts only ns.name callees
func (v *Verifier) builderName(callee *estree.Node) (string, error) {
	if callee == nil || callee.Type != "MemberExpression" || callee.Bool("computed") {
		return "", errors.Newf("callee must be %s.<builder>", v.namespace)
	}
	object := callee.Node("object")
	if object == nil || object.Type != "Identifier" || object.Str("name") != v.namespace {
		return "", errors.Newf("callee must be a member of %s", v.namespace)
	}
	property := callee.Node("property")
	if property == nil || property.Type != "Identifier" {
		return "", errors.Newf("callee must be %s.<builder>", v.namespace)
	}
	return property.Str("name"), nil
}

// Verify evaluates code and compares the rebuilt tree with original.
// A mismatch returns the Result alongside an ErrVerifyMismatch error.
func (v *Verifier) Verify(original *estree.Node, code string) (*Result, error) {
	expected, err := jsprint.Print(original)
	if err != nil {
		return nil, errors.Wrap(err, "printing input tree")
	}

	value, err := v.Evaluate(code)
	if err != nil {
		return nil, err
	}
	rebuilt, ok := value.(*estree.Node)
	if !ok {
		return nil, errors.Newf("generated code evaluates to %s, not a node", estree.Describe(value))
	}
	actual, err := jsprint.Print(rebuilt)
	if err != nil {
		return nil, errors.Wrap(err, "printing rebuilt tree")
	}

	res := &Result{Expected: expected, Actual: actual}
	if res.Match() {
		v.log.Debugw("verified generated code", logger.FieldBytes, len(code))
		return res, nil
	}

	res.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "input",
		ToFile:   "generated",
		Context:  3,
	})
	if err != nil {
		return nil, errors.Wrap(err, "diffing canonical prints")
	}
	return res, errors.WithDetail(
		errors.Wrap(errors.ErrVerifyMismatch, "generated code does not rebuild its input"),
		res.Diff)
}
