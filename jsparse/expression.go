package jsparse

import (
	"github.com/teranos/astbuild/estree"
)

var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true,
	"^=": true, "&&=": true, "||=": true, "??=": true,
}

// binaryPrecedence holds binding power for binary and logical operators
var binaryPrecedence = map[string]int{
	"??": 1,
	"||": 2,
	"&&": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"==": 7, "!=": 7, "===": 7, "!==": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8, "instanceof": 8, "in": 8,
	"<<": 9, ">>": 9, ">>>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
	"**": 12,
}

func isLogical(op string) bool {
	return op == "||" || op == "&&" || op == "??"
}

// expression parses a comma-separated sequence
func (p *parser) expression() *estree.Node {
	expr := p.assignment()
	if !p.isPunct(",") {
		return expr
	}
	expressions := estree.List{expr}
	for p.matchPunct(",") {
		expressions = append(expressions, p.assignment())
	}
	return estree.New("SequenceExpression").Set("expressions", expressions)
}

func (p *parser) assignment() *estree.Node {
	nested := p.inElement
	p.inElement = false

	if p.inGenerator && p.isName("yield") {
		return p.yield()
	}
	if p.isName("async") && !p.peekAt(1).NewlineBefore && p.isArrowAt(1) {
		p.fail(p.peek(), "async arrow functions are not supported")
	}
	if p.isArrowAt(0) {
		return p.arrow()
	}

	mark := len(p.coverInits)
	start := p.peek()
	left := p.conditional()
	tok := p.peek()
	if tok.Kind == TokenPunct && assignmentOperators[tok.Value] {
		switch left.Type {
		case "Identifier", "MemberExpression":
		case "ArrayExpression", "ObjectExpression":
			if tok.Value != "=" {
				p.fail(tok, "invalid assignment target")
			}
			left = p.toPattern(left, start)
			p.coverInits = p.coverInits[:mark]
		default:
			p.fail(tok, "invalid assignment target")
		}
		p.advance()
		return estree.New("AssignmentExpression").
			Set("operator", estree.String(tok.Value)).
			Set("left", left).
			Set("right", p.assignment())
	}
	if !nested && len(p.coverInits) > mark {
		p.fail(p.coverInits[mark], "shorthand property initializer outside a destructuring pattern")
	}
	return left
}

// elementAssignment parses an array element or property value, which
// may still be reinterpreted as part of a pattern
func (p *parser) elementAssignment() *estree.Node {
	p.inElement = true
	return p.assignment()
}

func (p *parser) yield() *estree.Node {
	p.advance()
	delegate := false
	if tok := p.peek(); tok.Kind == TokenPunct && tok.Value == "*" && !tok.NewlineBefore {
		p.advance()
		delegate = true
	}
	var argument estree.Value = estree.Null{}
	if delegate || p.startsYieldArgument() {
		argument = p.assignment()
	}
	return estree.New("YieldExpression").
		Set("argument", argument).
		Set("delegate", estree.Bool(delegate))
}

// startsYieldArgument reports whether an operand follows yield
func (p *parser) startsYieldArgument() bool {
	tok := p.peek()
	switch {
	case tok.Kind == TokenEOF || tok.NewlineBefore:
		return false
	case tok.Kind == TokenTemplate:
		return !tok.Continued
	case tok.Kind == TokenPunct:
		switch tok.Value {
		case ")", "]", "}", ",", ";", ":", "=>":
			return false
		}
	case tok.Kind == TokenName:
		return tok.Value != "in" && tok.Value != "of" && tok.Value != "instanceof"
	}
	return true
}

// isArrowAt looks ahead from offset for `x =>` or `( ... ) =>`
func (p *parser) isArrowAt(offset int) bool {
	tok := p.peekAt(offset)
	if tok.Kind == TokenName && !isReserved(tok.Value) {
		next := p.peekAt(offset + 1)
		return next.Kind == TokenPunct && next.Value == "=>" && !next.NewlineBefore
	}
	if tok.Kind != TokenPunct || tok.Value != "(" {
		return false
	}
	depth := 0
	for i := p.current + offset; i < len(p.tokens); i++ {
		t := p.tokens[i]
		if t.Kind == TokenEOF {
			return false
		}
		if t.Kind != TokenPunct {
			continue
		}
		switch t.Value {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				next := p.peekAt(i - p.current + 1)
				return next.Kind == TokenPunct && next.Value == "=>" && !next.NewlineBefore
			}
		}
	}
	return false
}

func (p *parser) arrow() *estree.Node {
	// an arrow binds neither await nor yield of its enclosing function
	savedAsync, savedGenerator := p.inAsync, p.inGenerator
	p.inAsync, p.inGenerator = false, false
	defer func() { p.inAsync, p.inGenerator = savedAsync, savedGenerator }()

	var params estree.List
	if p.isPunct("(") {
		params = p.parameters()
	} else {
		params = estree.List{p.identifier()}
	}
	p.expectPunct("=>")

	node := estree.New("ArrowFunctionExpression").
		Set("id", estree.Null{}).
		Set("params", params).
		Set("generator", estree.Bool(false)).
		Set("async", estree.Bool(false))
	if p.isPunct("{") {
		return node.Set("body", p.functionBody()).Set("expression", estree.Bool(false))
	}
	return node.Set("body", p.assignment()).Set("expression", estree.Bool(true))
}

func (p *parser) conditional() *estree.Node {
	test := p.binary(1)
	if !p.matchPunct("?") {
		return test
	}
	saved := p.noIn
	p.noIn = false
	consequent := p.assignment()
	p.noIn = saved
	p.expectPunct(":")
	alternate := p.assignment()
	return estree.New("ConditionalExpression").
		Set("test", test).
		Set("consequent", consequent).
		Set("alternate", alternate)
}

// binaryOperator returns the operator at the cursor, if any
func (p *parser) binaryOperator() (string, int, bool) {
	tok := p.peek()
	switch tok.Kind {
	case TokenPunct:
	case TokenName:
		if tok.Value != "instanceof" && tok.Value != "in" {
			return "", 0, false
		}
		if tok.Value == "in" && p.noIn {
			return "", 0, false
		}
	default:
		return "", 0, false
	}
	prec, ok := binaryPrecedence[tok.Value]
	return tok.Value, prec, ok
}

// binary climbs operator precedence; ** associates to the right
func (p *parser) binary(minPrec int) *estree.Node {
	left := p.unary()
	for {
		op, prec, ok := p.binaryOperator()
		if !ok || prec < minPrec {
			return left
		}
		p.advance()

		next := prec + 1
		if op == "**" {
			next = prec
		}
		right := p.binary(next)

		typ := "BinaryExpression"
		if isLogical(op) {
			typ = "LogicalExpression"
		}
		left = estree.New(typ).
			Set("operator", estree.String(op)).
			Set("left", left).
			Set("right", right)
	}
}

func (p *parser) unary() *estree.Node {
	tok := p.peek()
	if tok.Kind == TokenPunct {
		switch tok.Value {
		case "!", "~", "+", "-":
			p.advance()
			return estree.New("UnaryExpression").
				Set("operator", estree.String(tok.Value)).
				Set("prefix", estree.Bool(true)).
				Set("argument", p.unary())
		case "++", "--":
			p.advance()
			argument := p.unary()
			p.checkUpdateTarget(tok, argument)
			return estree.New("UpdateExpression").
				Set("operator", estree.String(tok.Value)).
				Set("prefix", estree.Bool(true)).
				Set("argument", argument)
		}
	}
	if tok.Kind == TokenName {
		switch tok.Value {
		case "typeof", "void", "delete":
			p.advance()
			return estree.New("UnaryExpression").
				Set("operator", estree.String(tok.Value)).
				Set("prefix", estree.Bool(true)).
				Set("argument", p.unary())
		case "await":
			if p.inAsync {
				p.advance()
				return estree.New("AwaitExpression").Set("argument", p.unary())
			}
		}
	}

	expr := p.leftHandSide()
	if next := p.peek(); next.Kind == TokenPunct && (next.Value == "++" || next.Value == "--") && !next.NewlineBefore {
		p.checkUpdateTarget(next, expr)
		p.advance()
		return estree.New("UpdateExpression").
			Set("operator", estree.String(next.Value)).
			Set("prefix", estree.Bool(false)).
			Set("argument", expr)
	}
	return expr
}

func (p *parser) checkUpdateTarget(tok Token, target *estree.Node) {
	if target.Type != "Identifier" && target.Type != "MemberExpression" {
		p.fail(tok, "invalid operand for %s", tok.Value)
	}
}

// leftHandSide parses member accesses, calls and new expressions
func (p *parser) leftHandSide() *estree.Node {
	var expr *estree.Node
	if p.isName("new") {
		expr = p.newExpression()
	} else {
		expr = p.primary()
	}
	return p.callTail(expr, true)
}

func (p *parser) newExpression() *estree.Node {
	p.advance()
	var callee *estree.Node
	if p.isName("new") {
		callee = p.newExpression()
	} else {
		callee = p.callTail(p.primary(), false)
	}
	args := estree.List{}
	if p.isPunct("(") {
		args = p.arguments()
	}
	return estree.New("NewExpression").
		Set("callee", callee).
		Set("arguments", args)
}

func (p *parser) callTail(expr *estree.Node, allowCalls bool) *estree.Node {
	for {
		switch {
		case p.matchPunct("."):
			expr = estree.New("MemberExpression").
				Set("object", expr).
				Set("property", p.propertyName()).
				Set("computed", estree.Bool(false)).
				Set("optional", estree.Bool(false))
		case p.isPunct("["):
			p.advance()
			saved := p.noIn
			p.noIn = false
			property := p.expression()
			p.noIn = saved
			p.expectPunct("]")
			expr = estree.New("MemberExpression").
				Set("object", expr).
				Set("property", property).
				Set("computed", estree.Bool(true)).
				Set("optional", estree.Bool(false))
		case p.peek().Kind == TokenTemplate && !p.peek().Continued:
			expr = estree.New("TaggedTemplateExpression").
				Set("tag", expr).
				Set("quasi", p.template())
		case allowCalls && p.isPunct("("):
			expr = estree.New("CallExpression").
				Set("callee", expr).
				Set("arguments", p.arguments()).
				Set("optional", estree.Bool(false))
		default:
			return expr
		}
	}
}

func (p *parser) arguments() estree.List {
	p.expectPunct("(")
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	args := estree.List{}
	for !p.isPunct(")") {
		if p.matchPunct("...") {
			args = append(args, estree.New("SpreadElement").Set("argument", p.assignment()))
		} else {
			args = append(args, p.assignment())
		}
		if p.isPunct(")") {
			break
		}
		p.expectPunct(",")
	}
	p.advance()
	return args
}

func (p *parser) primary() *estree.Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenNumber:
		p.advance()
		return literal(estree.Number(tok.Num), tok.Raw)
	case TokenString:
		p.advance()
		return literal(estree.String(tok.Value), tok.Raw)
	case TokenRegex:
		p.advance()
		return literal(&estree.RegExp{Pattern: tok.Pattern, Flags: tok.Flags}, tok.Raw)
	case TokenTemplate:
		if !tok.Continued {
			return p.template()
		}
	case TokenName:
		switch tok.Value {
		case "this":
			p.advance()
			return estree.New("ThisExpression")
		case "null":
			p.advance()
			return literal(estree.Null{}, tok.Raw)
		case "true", "false":
			p.advance()
			return literal(estree.Bool(tok.Value == "true"), tok.Raw)
		case "function":
			p.advance()
			return p.function("FunctionExpression", false, false)
		case "async":
			if next := p.peekAt(1); next.Kind == TokenName && next.Value == "function" && !next.NewlineBefore {
				p.advance()
				p.advance()
				return p.function("FunctionExpression", false, true)
			}
		case "class":
			p.advance()
			return p.class("ClassExpression", false)
		case "super":
			p.advance()
			if next := p.peek(); next.Kind != TokenPunct || (next.Value != "(" && next.Value != "." && next.Value != "[") {
				p.fail(tok, "'super' must be called or followed by a member access")
			}
			return estree.New("Super")
		}
		return p.identifier()
	case TokenPunct:
		switch tok.Value {
		case "(":
			return p.parenthesized()
		case "[":
			return p.array()
		case "{":
			return p.object()
		}
	}
	p.fail(tok, "unexpected %s", describe(tok))
	return nil
}

// template parses a template literal from its first chunk
func (p *parser) template() *estree.Node {
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	quasis := estree.List{}
	expressions := estree.List{}
	tok := p.advance()
	for {
		quasis = append(quasis, templateElement(tok))
		if tok.Tail {
			break
		}
		expressions = append(expressions, p.expression())
		tok = p.peek()
		if tok.Kind != TokenTemplate || !tok.Continued {
			p.fail(tok, "expected \"}\" closing template substitution, found %s", describe(tok))
		}
		p.advance()
	}
	return estree.New("TemplateLiteral").
		Set("quasis", quasis).
		Set("expressions", expressions)
}

func templateElement(tok Token) *estree.Node {
	return estree.New("TemplateElement").
		Set("value", estree.Object{
			"cooked": estree.String(tok.Value),
			"raw":    estree.String(tok.Raw),
		}).
		Set("tail", estree.Bool(tok.Tail))
}

func literal(v estree.Value, raw string) *estree.Node {
	return estree.Lit(v).Set("raw", estree.String(raw))
}

func (p *parser) array() *estree.Node {
	p.expectPunct("[")
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	elements := estree.List{}
	for !p.isPunct("]") {
		if p.isPunct(",") {
			p.advance()
			elements = append(elements, estree.Null{})
			continue
		}
		if p.matchPunct("...") {
			elements = append(elements, estree.New("SpreadElement").Set("argument", p.elementAssignment()))
		} else {
			elements = append(elements, p.elementAssignment())
		}
		if p.isPunct("]") {
			break
		}
		p.expectPunct(",")
	}
	p.advance()
	return estree.New("ArrayExpression").Set("elements", elements)
}

func (p *parser) object() *estree.Node {
	p.expectPunct("{")
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	properties := estree.List{}
	for !p.isPunct("}") {
		if p.matchPunct("...") {
			properties = append(properties, estree.New("SpreadElement").Set("argument", p.elementAssignment()))
		} else {
			properties = append(properties, p.property())
		}
		if p.isPunct("}") {
			break
		}
		p.expectPunct(",")
	}
	p.advance()
	return estree.New("ObjectExpression").Set("properties", properties)
}

func (p *parser) property() *estree.Node {
	tok := p.peek()
	accessor, async, generator := p.methodPrefix()
	key, computed := p.propertyKey()

	if accessor != "" {
		return newProperty(accessor, key, p.method(false, false), computed)
	}
	if async || generator {
		if !p.isPunct("(") {
			p.fail(p.peek(), "expected \"(\" after method name, found %s", describe(p.peek()))
		}
		return newProperty("init", key, p.method(async, generator), computed).
			Set("method", estree.Bool(true))
	}

	switch {
	case p.matchPunct(":"):
		return newProperty("init", key, p.elementAssignment(), computed)
	case p.isPunct("("):
		return newProperty("init", key, p.method(false, false), computed).
			Set("method", estree.Bool(true))
	case !computed && tok.Kind == TokenName && (p.isPunct(",") || p.isPunct("}") || p.isPunct("=")):
		if isReserved(tok.Value) {
			p.fail(tok, "unexpected reserved word %q in shorthand property", tok.Value)
		}
		var value *estree.Node = estree.Ident(tok.Value)
		if eq := p.peek(); p.matchPunct("=") {
			p.coverInits = append(p.coverInits, eq)
			value = estree.New("AssignmentPattern").
				Set("left", value).
				Set("right", p.assignment())
		}
		return newProperty("init", key, value, false).
			Set("shorthand", estree.Bool(true))
	}
	p.fail(p.peek(), "expected \":\" after property key, found %s", describe(p.peek()))
	return nil
}

func (p *parser) propertyKey() (*estree.Node, bool) {
	tok := p.peek()
	switch tok.Kind {
	case TokenName:
		return p.propertyName(), false
	case TokenString:
		p.advance()
		return literal(estree.String(tok.Value), tok.Raw), false
	case TokenNumber:
		p.advance()
		return literal(estree.Number(tok.Num), tok.Raw), false
	}
	if p.matchPunct("[") {
		key := p.assignment()
		p.expectPunct("]")
		return key, true
	}
	p.fail(tok, "expected property key, found %s", describe(tok))
	return nil, false
}

func newProperty(kind string, key, value *estree.Node, computed bool) *estree.Node {
	return estree.New("Property").
		Set("kind", estree.String(kind)).
		Set("key", key).
		Set("value", value).
		Set("computed", estree.Bool(computed)).
		Set("method", estree.Bool(false)).
		Set("shorthand", estree.Bool(false))
}
