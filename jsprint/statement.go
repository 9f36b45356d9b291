package jsprint

import (
	"strings"

	"github.com/teranos/astbuild/estree"
)

func isStatement(typ string) bool {
	return strings.HasSuffix(typ, "Statement") || strings.HasSuffix(typ, "Declaration")
}

// stmt prints a statement at the current depth; the caller writes the
// leading indentation
func (p *pp) stmt(n *estree.Node) string {
	switch n.Type {
	case "ExpressionStatement":
		text := p.expr(p.need(n, "expression"), precSequence)
		if startsAmbiguously(text) {
			text = "(" + text + ")"
		}
		return text + ";"

	case "BlockStatement":
		return p.block(n)

	case "EmptyStatement":
		return ";"

	case "DebuggerStatement":
		return "debugger;"

	case "VariableDeclaration":
		return p.declaration(n) + ";"

	case "FunctionDeclaration":
		return p.function(n)

	case "ClassDeclaration":
		return p.class(n)

	case "ReturnStatement":
		if arg := p.optional(n, "argument"); arg != nil {
			return "return " + p.expr(arg, precSequence) + ";"
		}
		return "return;"

	case "ThrowStatement":
		return "throw " + p.expr(p.need(n, "argument"), precSequence) + ";"

	case "BreakStatement", "ContinueStatement":
		word := "break"
		if n.Type == "ContinueStatement" {
			word = "continue"
		}
		if label := p.optional(n, "label"); label != nil {
			return word + " " + p.propertyName(label) + ";"
		}
		return word + ";"

	case "LabeledStatement":
		return p.propertyName(p.need(n, "label")) + ": " + p.stmt(p.need(n, "body"))

	case "IfStatement":
		consequent := p.need(n, "consequent")
		alternate := p.optional(n, "alternate")
		text := "if (" + p.expr(p.need(n, "test"), precSequence) + ") "
		if alternate != nil && endsWithOpenIf(consequent) {
			text += p.braced(consequent)
		} else {
			text += p.stmt(consequent)
		}
		if alternate != nil {
			text += " else " + p.stmt(alternate)
		}
		return text

	case "WithStatement":
		return "with (" + p.expr(p.need(n, "object"), precSequence) + ") " + p.stmt(p.need(n, "body"))

	case "WhileStatement":
		return "while (" + p.expr(p.need(n, "test"), precSequence) + ") " + p.stmt(p.need(n, "body"))

	case "DoWhileStatement":
		return "do " + p.stmt(p.need(n, "body")) + " while (" + p.expr(p.need(n, "test"), precSequence) + ");"

	case "ForStatement":
		text := "for ("
		if init := p.optional(n, "init"); init != nil {
			text += p.forHead(init)
		}
		text += ";"
		if test := p.optional(n, "test"); test != nil {
			text += " " + p.expr(test, precSequence)
		}
		text += ";"
		if update := p.optional(n, "update"); update != nil {
			text += " " + p.expr(update, precSequence)
		}
		return text + ") " + p.stmt(p.need(n, "body"))

	case "ForInStatement", "ForOfStatement":
		word := " in "
		right := p.expr(p.need(n, "right"), precSequence)
		if n.Type == "ForOfStatement" {
			word = " of "
			right = p.expr(p.need(n, "right"), precAssign)
		}
		return "for (" + p.forHead(p.need(n, "left")) + word + right + ") " + p.stmt(p.need(n, "body"))

	case "TryStatement":
		text := "try " + p.block(p.need(n, "block"))
		if handler := p.optional(n, "handler"); handler != nil {
			text += " catch "
			if param := p.optional(handler, "param"); param != nil {
				text += "(" + p.expr(param, precAssign) + ") "
			}
			text += p.block(p.need(handler, "body"))
		}
		if finalizer := p.optional(n, "finalizer"); finalizer != nil {
			text += " finally " + p.block(finalizer)
		}
		return text

	case "SwitchStatement":
		return p.switchStatement(n)
	}

	p.fail(n, "cannot print statement %s", n.Type)
	return ""
}

// startsAmbiguously reports text that would not parse as an expression
// statement without parentheses
func startsAmbiguously(text string) bool {
	return strings.HasPrefix(text, "{") ||
		strings.HasPrefix(text, "function ") || strings.HasPrefix(text, "function*") ||
		strings.HasPrefix(text, "async function") ||
		strings.HasPrefix(text, "class ") || strings.HasPrefix(text, "class{") ||
		strings.HasPrefix(text, "let [")
}

// endsWithOpenIf reports whether an else placed after n would attach to
// an if statement nested inside it
func endsWithOpenIf(n *estree.Node) bool {
	switch n.Type {
	case "IfStatement":
		alternate := n.Node("alternate")
		if alternate == nil {
			return true
		}
		return endsWithOpenIf(alternate)
	case "WhileStatement", "ForStatement", "ForInStatement", "ForOfStatement", "LabeledStatement", "WithStatement":
		if body := n.Node("body"); body != nil {
			return endsWithOpenIf(body)
		}
	}
	return false
}

func (p *pp) declaration(n *estree.Node) string {
	decls := p.nodes(n, "declarations")
	parts := make([]string, len(decls))
	for i, d := range decls {
		if d == nil || d.Type != "VariableDeclarator" {
			p.fail(d, "VariableDeclaration.declarations[%d] must be a VariableDeclarator", i)
		}
		parts[i] = p.expr(p.need(d, "id"), precCall)
		if init := p.optional(d, "init"); init != nil {
			parts[i] += " = " + p.expr(init, precAssign)
		}
	}
	return n.Str("kind") + " " + strings.Join(parts, ", ")
}

// forHead prints a for-statement initializer with 'in' parenthesized
func (p *pp) forHead(n *estree.Node) string {
	saved := p.noIn
	p.noIn = true
	defer func() { p.noIn = saved }()
	if n.Type == "VariableDeclaration" {
		return p.declaration(n)
	}
	return p.expr(n, precSequence)
}

func (p *pp) block(n *estree.Node) string {
	if n.Type != "BlockStatement" {
		p.fail(n, "expected BlockStatement, found %s", n.Type)
	}
	body := p.nodes(n, "body")
	if len(body) == 0 {
		return "{}"
	}
	return p.lines(body)
}

// braced prints a single statement as a block
func (p *pp) braced(n *estree.Node) string {
	if n.Type == "BlockStatement" {
		return p.block(n)
	}
	return p.lines([]*estree.Node{n})
}

func (p *pp) lines(stmts []*estree.Node) string {
	saved := p.noIn
	p.noIn = false
	p.depth++
	var b strings.Builder
	b.WriteString("{\n")
	for _, s := range stmts {
		if s == nil {
			p.fail(nil, "statement list holds a hole")
		}
		b.WriteString(p.pad())
		b.WriteString(p.stmt(s))
		b.WriteByte('\n')
	}
	p.depth--
	p.noIn = saved
	b.WriteString(p.pad())
	b.WriteByte('}')
	return b.String()
}

func (p *pp) switchStatement(n *estree.Node) string {
	var b strings.Builder
	b.WriteString("switch (")
	b.WriteString(p.expr(p.need(n, "discriminant"), precSequence))
	b.WriteString(") {\n")

	p.depth++
	for _, c := range p.nodes(n, "cases") {
		if c == nil || c.Type != "SwitchCase" {
			p.fail(c, "SwitchStatement.cases must hold SwitchCase nodes")
		}
		b.WriteString(p.pad())
		if test := p.optional(c, "test"); test != nil {
			b.WriteString("case " + p.expr(test, precSequence) + ":")
		} else {
			b.WriteString("default:")
		}
		b.WriteByte('\n')

		p.depth++
		for _, s := range p.nodes(c, "consequent") {
			if s == nil {
				p.fail(nil, "SwitchCase.consequent holds a hole")
			}
			b.WriteString(p.pad())
			b.WriteString(p.stmt(s))
			b.WriteByte('\n')
		}
		p.depth--
	}
	p.depth--

	b.WriteString(p.pad())
	b.WriteByte('}')
	return b.String()
}
