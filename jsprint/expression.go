package jsprint

import (
	"strings"

	"github.com/teranos/astbuild/estree"
)

func precedence(n *estree.Node) int {
	switch n.Type {
	case "SequenceExpression":
		return precSequence
	case "AssignmentExpression", "ArrowFunctionExpression", "YieldExpression":
		return precAssign
	case "ConditionalExpression":
		return precCond
	case "BinaryExpression", "LogicalExpression":
		return precBinary + binaryPrecedence[n.Str("operator")]
	case "UnaryExpression", "AwaitExpression":
		return precUnary
	case "UpdateExpression":
		if n.Bool("prefix") {
			return precUnary
		}
		return precPostfix
	case "CallExpression", "NewExpression", "MemberExpression", "TaggedTemplateExpression":
		return precCall
	case "Literal":
		if v, _ := n.Get("value"); v != nil {
			if num, ok := v.(estree.Number); ok && (num < 0 || (num == 0 && 1/num < 0)) {
				return precUnary
			}
		}
		return precPrimary
	}
	return precPrimary
}

// expr prints n, parenthesized when it binds looser than minPrec
func (p *pp) expr(n *estree.Node, minPrec int) string {
	text := p.bare(n)
	if precedence(n) < minPrec {
		return "(" + text + ")"
	}
	return text
}

func (p *pp) bare(n *estree.Node) string {
	switch n.Type {
	case "Identifier":
		return n.Str("name")
	case "Literal":
		return p.literal(n)
	case "ThisExpression":
		return "this"
	case "Super":
		return "super"

	case "ArrayExpression", "ArrayPattern":
		elements := p.nodes(n, "elements")
		text := p.join(elements, precAssign)
		if len(elements) > 0 && elements[len(elements)-1] == nil {
			// a trailing hole needs its own comma
			text += ","
		}
		return "[" + text + "]"

	case "ObjectExpression", "ObjectPattern":
		props := p.nodes(n, "properties")
		if len(props) == 0 {
			return "{}"
		}
		parts := make([]string, len(props))
		for i, prop := range props {
			if prop == nil {
				p.fail(nil, "%s.properties holds a hole", n.Type)
			}
			parts[i] = p.property(prop)
		}
		return "{" + strings.Join(parts, ", ") + "}"

	case "SpreadElement", "RestElement":
		return "..." + p.expr(p.need(n, "argument"), precAssign)

	case "FunctionExpression":
		return p.function(n)

	case "ClassExpression":
		return p.class(n)

	case "TemplateLiteral":
		return p.template(n)

	case "TaggedTemplateExpression":
		quasi := p.need(n, "quasi")
		if quasi.Type != "TemplateLiteral" {
			p.fail(quasi, "TaggedTemplateExpression.quasi must be a TemplateLiteral, found %s", quasi.Type)
		}
		return p.expr(p.need(n, "tag"), precCall) + p.template(quasi)

	case "AwaitExpression":
		return "await " + p.expr(p.need(n, "argument"), precUnary)

	case "YieldExpression":
		text := "yield"
		if n.Bool("delegate") {
			text += "*"
		}
		if arg := p.optional(n, "argument"); arg != nil {
			text += " " + p.expr(arg, precAssign)
		}
		return text

	case "ArrowFunctionExpression":
		return p.arrow(n)

	case "SequenceExpression":
		return p.join(p.nodes(n, "expressions"), precAssign)

	case "AssignmentExpression":
		return p.expr(p.need(n, "left"), precCall) + " " + n.Str("operator") + " " +
			p.expr(p.need(n, "right"), precAssign)

	case "AssignmentPattern":
		return p.expr(p.need(n, "left"), precCall) + " = " + p.expr(p.need(n, "right"), precAssign)

	case "ConditionalExpression":
		return p.expr(p.need(n, "test"), precCond+1) + " ? " +
			p.expr(p.need(n, "consequent"), precAssign) + " : " +
			p.expr(p.need(n, "alternate"), precAssign)

	case "BinaryExpression", "LogicalExpression":
		return p.binary(n)

	case "UnaryExpression":
		op := n.Str("operator")
		arg := p.expr(p.need(n, "argument"), precUnary)
		if isWordOperator(op) || ((op == "-" || op == "+") && strings.HasPrefix(arg, op)) {
			return op + " " + arg
		}
		return op + arg

	case "UpdateExpression":
		op := n.Str("operator")
		if n.Bool("prefix") {
			return op + p.expr(p.need(n, "argument"), precUnary)
		}
		return p.expr(p.need(n, "argument"), precPostfix) + op

	case "CallExpression":
		return p.expr(p.need(n, "callee"), precCall) + "(" + p.join(p.nodes(n, "arguments"), precAssign) + ")"

	case "NewExpression":
		callee := p.need(n, "callee")
		text := p.expr(callee, precCall)
		if hasCall(callee) && precedence(callee) >= precCall {
			text = "(" + text + ")"
		}
		return "new " + text + "(" + p.join(p.nodes(n, "arguments"), precAssign) + ")"

	case "MemberExpression":
		object := p.need(n, "object")
		text := p.expr(object, precCall)
		if object.Type == "Literal" && precedence(object) == precPrimary {
			if _, isNum := mustValue(object).(estree.Number); isNum {
				text = "(" + text + ")"
			}
		}
		if n.Bool("computed") {
			return text + "[" + p.expr(p.need(n, "property"), precSequence) + "]"
		}
		return text + "." + p.propertyName(p.need(n, "property"))
	}

	p.fail(n, "cannot print %s", n.Type)
	return ""
}

func mustValue(n *estree.Node) estree.Value {
	v, _ := n.Get("value")
	return v
}

func isWordOperator(op string) bool {
	return op == "typeof" || op == "void" || op == "delete"
}

// hasCall reports whether a call sits at the head of a member chain, which
// would otherwise bind to 'new'
func hasCall(n *estree.Node) bool {
	switch n.Type {
	case "CallExpression":
		return true
	case "MemberExpression":
		if object := n.Node("object"); object != nil {
			return hasCall(object)
		}
	}
	return false
}

func (p *pp) binary(n *estree.Node) string {
	op := n.Str("operator")
	prec := precedence(n)
	left, right := p.need(n, "left"), p.need(n, "right")

	leftPrec, rightPrec := prec, prec+1
	if op == "**" {
		// right-associative, and a unary operand must be parenthesized
		leftPrec, rightPrec = precPostfix, prec
	}
	if mixesNullish(op, left) {
		leftPrec = precPrimary
	}
	if mixesNullish(op, right) {
		rightPrec = precPrimary
	}

	text := p.expr(left, leftPrec) + " " + op + " " + p.expr(right, rightPrec)
	if op == "in" && p.noIn {
		return "(" + text + ")"
	}
	return text
}

// mixesNullish reports a ?? next to || or &&, which needs parentheses
func mixesNullish(op string, operand *estree.Node) bool {
	if operand.Type != "LogicalExpression" {
		return false
	}
	inner := operand.Str("operator")
	return (op == "??") != (inner == "??")
}

func (p *pp) propertyName(n *estree.Node) string {
	if n.Type == "Identifier" {
		return n.Str("name")
	}
	p.fail(n, "non-computed property must be an Identifier, found %s", n.Type)
	return ""
}

func (p *pp) propertyKey(prop *estree.Node) string {
	key := p.need(prop, "key")
	if prop.Bool("computed") {
		return "[" + p.expr(key, precAssign) + "]"
	}
	switch key.Type {
	case "Identifier":
		return key.Str("name")
	case "Literal":
		return p.literal(key)
	}
	p.fail(key, "property key must be an Identifier or Literal, found %s", key.Type)
	return ""
}

func (p *pp) property(prop *estree.Node) string {
	if prop.Type == "SpreadElement" || prop.Type == "RestElement" {
		return p.bare(prop)
	}
	if prop.Type != "Property" {
		p.fail(prop, "expected Property, found %s", prop.Type)
	}

	key := p.propertyKey(prop)
	value := p.need(prop, "value")
	switch kind := prop.Str("kind"); kind {
	case "get", "set":
		if value.Type != "FunctionExpression" {
			p.fail(value, "%s accessor value must be a FunctionExpression", kind)
		}
		return kind + " " + key + p.signature(value)
	}
	return key + ": " + p.expr(value, precAssign)
}

func (p *pp) function(n *estree.Node) string {
	var b strings.Builder
	if n.Bool("async") {
		b.WriteString("async ")
	}
	b.WriteString("function")
	if n.Bool("generator") {
		b.WriteByte('*')
	}
	if id := p.optional(n, "id"); id != nil {
		b.WriteByte(' ')
		b.WriteString(p.propertyName(id))
	} else {
		b.WriteByte(' ')
	}
	b.WriteString(p.signature(n))
	return b.String()
}

// signature prints "(params) {body}"
func (p *pp) signature(fn *estree.Node) string {
	return "(" + p.join(p.nodes(fn, "params"), precAssign) + ") " + p.block(p.need(fn, "body"))
}

func (p *pp) arrow(n *estree.Node) string {
	var b strings.Builder
	if n.Bool("async") {
		b.WriteString("async ")
	}
	params := p.nodes(n, "params")
	if len(params) == 1 && params[0] != nil && params[0].Type == "Identifier" {
		b.WriteString(params[0].Str("name"))
	} else {
		b.WriteString("(" + p.join(params, precAssign) + ")")
	}
	b.WriteString(" => ")

	body := p.need(n, "body")
	if body.Type == "BlockStatement" {
		b.WriteString(p.block(body))
		return b.String()
	}
	text := p.expr(body, precAssign)
	if strings.HasPrefix(text, "{") {
		text = "(" + text + ")"
	}
	b.WriteString(text)
	return b.String()
}

// template prints a template literal from the raw text of its chunks
func (p *pp) template(n *estree.Node) string {
	quasis := p.nodes(n, "quasis")
	expressions := p.nodes(n, "expressions")
	if len(quasis) != len(expressions)+1 {
		p.fail(n, "TemplateLiteral has %d quasis for %d expressions", len(quasis), len(expressions))
	}
	var b strings.Builder
	b.WriteByte('`')
	for i, q := range quasis {
		if q == nil || q.Type != "TemplateElement" {
			p.fail(q, "TemplateLiteral.quasis[%d] must be a TemplateElement", i)
		}
		value, _ := q.Get("value")
		record, ok := value.(estree.Object)
		if !ok {
			p.fail(value, "TemplateElement.value must be a record")
		}
		raw, ok := record["raw"].(estree.String)
		if !ok {
			p.fail(value, "TemplateElement.value.raw must be a string")
		}
		b.WriteString(string(raw))
		if i < len(expressions) {
			if expressions[i] == nil {
				p.fail(nil, "TemplateLiteral.expressions holds a hole")
			}
			b.WriteString("${")
			b.WriteString(p.expr(expressions[i], precSequence))
			b.WriteByte('}')
		}
	}
	b.WriteByte('`')
	return b.String()
}

func (p *pp) class(n *estree.Node) string {
	var b strings.Builder
	b.WriteString("class")
	if id := p.optional(n, "id"); id != nil {
		b.WriteString(" " + p.propertyName(id))
	}
	if superClass := p.optional(n, "superClass"); superClass != nil {
		b.WriteString(" extends " + p.expr(superClass, precCall))
	}

	body := p.need(n, "body")
	if body.Type != "ClassBody" {
		p.fail(body, "expected ClassBody, found %s", body.Type)
	}
	members := p.nodes(body, "body")
	if len(members) == 0 {
		b.WriteString(" {}")
		return b.String()
	}

	saved := p.noIn
	p.noIn = false
	p.depth++
	b.WriteString(" {\n")
	for _, m := range members {
		if m == nil {
			p.fail(nil, "ClassBody.body holds a hole")
		}
		b.WriteString(p.pad())
		b.WriteString(p.method(m))
		b.WriteByte('\n')
	}
	p.depth--
	p.noIn = saved
	b.WriteString(p.pad())
	b.WriteByte('}')
	return b.String()
}

func (p *pp) method(m *estree.Node) string {
	if m.Type != "MethodDefinition" {
		p.fail(m, "expected MethodDefinition, found %s", m.Type)
	}
	value := p.need(m, "value")
	if value.Type != "FunctionExpression" {
		p.fail(value, "MethodDefinition.value must be a FunctionExpression")
	}

	var b strings.Builder
	if m.Bool("static") {
		b.WriteString("static ")
	}
	switch kind := m.Str("kind"); kind {
	case "get", "set":
		b.WriteString(kind + " ")
	case "constructor", "method":
		if value.Bool("async") {
			b.WriteString("async ")
		}
		if value.Bool("generator") {
			b.WriteByte('*')
		}
	default:
		p.fail(m, "unknown method kind %q", kind)
	}
	b.WriteString(p.propertyKey(m))
	b.WriteString(p.signature(value))
	return b.String()
}
