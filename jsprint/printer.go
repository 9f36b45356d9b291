// Package jsprint prints estree trees as canonical JavaScript.
//
// Output depends only on a node's semantic fields. Raw literal text,
// method and shorthand markers are ignored, so two trees that describe
// the same program print identically no matter how they were written.
package jsprint

import (
	"strings"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
	"github.com/teranos/astbuild/layout"
)

// expression precedence, loosest first
const (
	precSequence = 1
	precAssign   = 2
	precCond     = 3
	// binary operators occupy precBinary+1 .. precBinary+12
	precBinary  = 3
	precUnary   = 16
	precPostfix = 17
	precCall    = 18
	precPrimary = 19
)

var binaryPrecedence = map[string]int{
	"??": 1, "||": 2, "&&": 3, "|": 4, "^": 5, "&": 6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "instanceof": 8, "in": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

// printError carries a failure out of the recursive printer
type printError struct {
	err error
}

// Print renders a File, Program, statement or expression node.
func Print(n *estree.Node) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(printError)
			if !ok {
				panic(r)
			}
			err = pe.err
		}
	}()

	p := &pp{}
	switch {
	case n == nil:
		p.fail(nil, "nil node")
	case n.Type == "File":
		return p.program(p.need(n, "program")), nil
	case n.Type == "Program":
		return p.program(n), nil
	case isStatement(n.Type):
		return p.stmt(n) + "\n", nil
	}
	return p.expr(n, precSequence), nil
}

type pp struct {
	depth int
	// noIn parenthesizes 'in' operators inside for-statement heads
	noIn bool
}

func (p *pp) fail(v estree.Value, format string, args ...interface{}) {
	panic(printError{err: errors.WithDetailf(
		errors.Wrapf(errors.ErrUnrecognizedNode, format, args...),
		"value: %s", estree.Describe(v))})
}

// need returns a required child node
func (p *pp) need(n *estree.Node, field string) *estree.Node {
	child := n.Node(field)
	if child == nil {
		v, _ := n.Get(field)
		p.fail(v, "%s.%s must be a node", n.Type, field)
	}
	return child
}

// optional returns a child node, or nil when the field is null or absent
func (p *pp) optional(n *estree.Node, field string) *estree.Node {
	v, ok := n.Get(field)
	if !ok || estree.IsNull(v) {
		return nil
	}
	return p.need(n, field)
}

func (p *pp) nodes(n *estree.Node, field string) []*estree.Node {
	v, ok := n.Get(field)
	if !ok {
		p.fail(nil, "%s.%s is missing", n.Type, field)
	}
	list, ok := v.(estree.List)
	if !ok {
		p.fail(v, "%s.%s must be a list", n.Type, field)
	}
	out := make([]*estree.Node, len(list))
	for i, item := range list {
		if estree.IsNull(item) {
			continue
		}
		child, ok := item.(*estree.Node)
		if !ok {
			p.fail(item, "%s.%s[%d] must be a node", n.Type, field, i)
		}
		out[i] = child
	}
	return out
}

func (p *pp) pad() string {
	return strings.Repeat("  ", p.depth)
}

func (p *pp) program(n *estree.Node) string {
	if n.Type != "Program" {
		p.fail(n, "expected Program, found %s", n.Type)
	}
	var b strings.Builder
	for _, s := range p.nodes(n, "body") {
		if s == nil {
			p.fail(nil, "Program.body holds a hole")
		}
		b.WriteString(p.stmt(s))
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *pp) literal(n *estree.Node) string {
	v, _ := n.Get("value")
	switch t := v.(type) {
	case nil, estree.Null:
		return "null"
	case estree.Bool:
		if t {
			return "true"
		}
		return "false"
	case estree.Number:
		return estree.FormatNumber(float64(t))
	case estree.String:
		return layout.Quote(string(t))
	case *estree.RegExp:
		return t.String()
	}
	p.fail(v, "unsupported literal value")
	return ""
}

func (p *pp) join(items []*estree.Node, prec int) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if item != nil {
			parts[i] = p.expr(item, prec)
		}
	}
	return strings.Join(parts, ", ")
}
