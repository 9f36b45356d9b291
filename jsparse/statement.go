package jsparse

import (
	"github.com/teranos/astbuild/estree"
)

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true,
}

func isReserved(name string) bool {
	return reservedWords[name]
}

func (p *parser) statement() *estree.Node {
	tok := p.peek()

	if tok.Kind == TokenPunct {
		switch tok.Value {
		case "{":
			return p.block()
		case ";":
			p.advance()
			return estree.New("EmptyStatement")
		}
	}

	if tok.Kind == TokenName {
		switch tok.Value {
		case "var", "const":
			return p.variableStatement()
		case "let":
			if startsBinding(p.peekAt(1)) {
				return p.variableStatement()
			}
		case "function":
			p.advance()
			return p.function("FunctionDeclaration", true, false)
		case "async":
			if next := p.peekAt(1); next.Kind == TokenName && next.Value == "function" && !next.NewlineBefore {
				p.advance()
				p.advance()
				return p.function("FunctionDeclaration", true, true)
			}
		case "class":
			p.advance()
			return p.class("ClassDeclaration", true)
		case "if":
			return p.ifStatement()
		case "while":
			return p.whileStatement()
		case "do":
			return p.doWhileStatement()
		case "for":
			return p.forStatement()
		case "return":
			return p.returnStatement()
		case "break", "continue":
			return p.jumpStatement()
		case "throw":
			return p.throwStatement()
		case "try":
			return p.tryStatement()
		case "switch":
			return p.switchStatement()
		case "with":
			return p.withStatement()
		case "debugger":
			p.advance()
			p.consumeSemicolon()
			return estree.New("DebuggerStatement")
		case "import", "export":
			p.fail(tok, "%q is not supported", tok.Value)
		}

		if !isReserved(tok.Value) {
			if next := p.peekAt(1); next.Kind == TokenPunct && next.Value == ":" {
				label := p.identifier()
				p.advance()
				return estree.New("LabeledStatement").
					Set("label", label).
					Set("body", p.statement())
			}
		}
	}

	expr := p.expression()
	p.consumeSemicolon()
	return estree.New("ExpressionStatement").Set("expression", expr)
}

func (p *parser) block() *estree.Node {
	p.expectPunct("{")
	body := estree.List{}
	for !p.isPunct("}") {
		if p.atEOF() {
			p.fail(p.peek(), "expected \"}\", found end of input")
		}
		body = append(body, p.statement())
	}
	p.advance()
	return estree.New("BlockStatement").Set("body", body)
}

func (p *parser) variableStatement() *estree.Node {
	decl := p.variableDeclaration()
	p.consumeSemicolon()
	return decl
}

// variableDeclaration parses the declaration list without its terminator
func (p *parser) variableDeclaration() *estree.Node {
	kind := p.advance().Value
	declarations := estree.List{}
	for {
		id := p.bindingTarget()
		declarator := estree.New("VariableDeclarator").Set("id", id)
		if p.matchPunct("=") {
			declarator.Set("init", p.assignment())
		} else {
			if id.Type != "Identifier" && !p.isName("in") && !p.isName("of") {
				p.fail(p.peek(), "destructuring declaration requires an initializer")
			}
			declarator.Set("init", estree.Null{})
		}
		declarations = append(declarations, declarator)
		if !p.matchPunct(",") {
			break
		}
	}
	return estree.New("VariableDeclaration").
		Set("kind", estree.String(kind)).
		Set("declarations", declarations)
}

// function parses the optional star, name, parameters and body after
// the 'function' keyword
func (p *parser) function(typ string, requireName, async bool) *estree.Node {
	generator := p.matchPunct("*")
	var id estree.Value = estree.Null{}
	if p.peek().Kind == TokenName {
		id = p.identifier()
	} else if requireName {
		p.fail(p.peek(), "function declaration requires a name")
	}
	return p.functionRest(typ, id, async, generator)
}

// functionRest parses parameters and body with await and yield bound
// the way the function's flags say
func (p *parser) functionRest(typ string, id estree.Value, async, generator bool) *estree.Node {
	savedAsync, savedGenerator := p.inAsync, p.inGenerator
	p.inAsync, p.inGenerator = async, generator
	defer func() { p.inAsync, p.inGenerator = savedAsync, savedGenerator }()

	params := p.parameters()
	body := p.functionBody()
	return estree.New(typ).
		Set("id", id).
		Set("params", params).
		Set("body", body).
		Set("generator", estree.Bool(generator)).
		Set("async", estree.Bool(async))
}

func (p *parser) functionBody() *estree.Node {
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	return p.block()
}

func (p *parser) parameters() estree.List {
	p.expectPunct("(")
	params := estree.List{}
	for !p.isPunct(")") {
		params = append(params, p.parameter())
		if p.isPunct(")") {
			break
		}
		p.expectPunct(",")
	}
	p.advance()
	return params
}

func (p *parser) parameter() estree.Value {
	if p.matchPunct("...") {
		arg := p.bindingTarget()
		if !p.isPunct(")") {
			p.fail(p.peek(), "rest parameter must be last")
		}
		return estree.New("RestElement").Set("argument", arg)
	}
	return p.bindingElement()
}

func (p *parser) parenthesized() *estree.Node {
	p.expectPunct("(")
	saved := p.noIn
	p.noIn = false
	expr := p.expression()
	p.noIn = saved
	p.expectPunct(")")
	return expr
}

func (p *parser) ifStatement() *estree.Node {
	p.advance()
	test := p.parenthesized()
	consequent := p.statement()
	var alternate estree.Value = estree.Null{}
	if p.matchName("else") {
		alternate = p.statement()
	}
	return estree.New("IfStatement").
		Set("test", test).
		Set("consequent", consequent).
		Set("alternate", alternate)
}

func (p *parser) whileStatement() *estree.Node {
	p.advance()
	test := p.parenthesized()
	return estree.New("WhileStatement").
		Set("test", test).
		Set("body", p.statement())
}

func (p *parser) doWhileStatement() *estree.Node {
	p.advance()
	body := p.statement()
	p.expectName("while")
	test := p.parenthesized()
	p.matchPunct(";")
	return estree.New("DoWhileStatement").
		Set("body", body).
		Set("test", test)
}

func (p *parser) withStatement() *estree.Node {
	p.advance()
	object := p.parenthesized()
	return estree.New("WithStatement").
		Set("object", object).
		Set("body", p.statement())
}

func (p *parser) forStatement() *estree.Node {
	forTok := p.advance()
	if p.isName("await") {
		p.fail(p.peek(), "for await is not supported")
	}
	p.expectPunct("(")

	var init estree.Value = estree.Null{}
	if !p.isPunct(";") {
		p.noIn = true
		if p.isName("var") || p.isName("const") || (p.isName("let") && startsBinding(p.peekAt(1))) {
			init = p.variableDeclaration()
		} else {
			init = p.expression()
		}
		p.noIn = false

		if p.isName("in") || p.isName("of") {
			typ := "ForInStatement"
			if p.advance().Value == "of" {
				typ = "ForOfStatement"
			}
			left := init.(*estree.Node)
			if left.Type == "VariableDeclaration" {
				decls := left.List("declarations")
				if len(decls) != 1 || !estree.IsNull(decls[0].(*estree.Node).Fields["init"]) {
					p.fail(forTok, "%s requires a single declaration without initializer", typ)
				}
			} else {
				switch left.Type {
				case "Identifier", "MemberExpression":
				case "ArrayExpression", "ObjectExpression":
					left = p.toPattern(left, forTok)
				default:
					p.fail(forTok, "invalid left-hand side in %s", typ)
				}
			}
			var right *estree.Node
			if typ == "ForOfStatement" {
				right = p.assignment()
			} else {
				right = p.expression()
			}
			p.expectPunct(")")
			return estree.New(typ).
				Set("left", left).
				Set("right", right).
				Set("body", p.statement())
		}
	}
	p.expectPunct(";")

	var test estree.Value = estree.Null{}
	if !p.isPunct(";") {
		test = p.expression()
	}
	p.expectPunct(";")

	var update estree.Value = estree.Null{}
	if !p.isPunct(")") {
		update = p.expression()
	}
	p.expectPunct(")")

	return estree.New("ForStatement").
		Set("init", init).
		Set("test", test).
		Set("update", update).
		Set("body", p.statement())
}

// hasArgument reports whether a restricted production continues on the same line
func (p *parser) hasArgument() bool {
	tok := p.peek()
	if tok.Kind == TokenEOF || tok.NewlineBefore {
		return false
	}
	return !(tok.Kind == TokenPunct && (tok.Value == ";" || tok.Value == "}"))
}

func (p *parser) returnStatement() *estree.Node {
	p.advance()
	var argument estree.Value = estree.Null{}
	if p.hasArgument() {
		argument = p.expression()
	}
	p.consumeSemicolon()
	return estree.New("ReturnStatement").Set("argument", argument)
}

func (p *parser) jumpStatement() *estree.Node {
	typ := "BreakStatement"
	if p.advance().Value == "continue" {
		typ = "ContinueStatement"
	}
	var label estree.Value = estree.Null{}
	if p.hasArgument() && p.peek().Kind == TokenName {
		label = p.identifier()
	}
	p.consumeSemicolon()
	return estree.New(typ).Set("label", label)
}

func (p *parser) throwStatement() *estree.Node {
	tok := p.advance()
	if !p.hasArgument() {
		p.fail(tok, "illegal newline after throw")
	}
	argument := p.expression()
	p.consumeSemicolon()
	return estree.New("ThrowStatement").Set("argument", argument)
}

func (p *parser) tryStatement() *estree.Node {
	tok := p.advance()
	block := p.block()

	var handler estree.Value = estree.Null{}
	if p.matchName("catch") {
		var param estree.Value = estree.Null{}
		if p.matchPunct("(") {
			param = p.bindingTarget()
			p.expectPunct(")")
		}
		handler = estree.New("CatchClause").
			Set("param", param).
			Set("body", p.block())
	}

	var finalizer estree.Value = estree.Null{}
	if p.matchName("finally") {
		finalizer = p.block()
	}

	if estree.IsNull(handler) && estree.IsNull(finalizer) {
		p.fail(tok, "missing catch or finally after try")
	}
	return estree.New("TryStatement").
		Set("block", block).
		Set("handler", handler).
		Set("finalizer", finalizer)
}

func (p *parser) switchStatement() *estree.Node {
	p.advance()
	discriminant := p.parenthesized()
	p.expectPunct("{")

	cases := estree.List{}
	sawDefault := false
	for !p.matchPunct("}") {
		var test estree.Value = estree.Null{}
		tok := p.peek()
		switch {
		case p.matchName("case"):
			test = p.expression()
		case p.matchName("default"):
			if sawDefault {
				p.fail(tok, "more than one default clause in switch")
			}
			sawDefault = true
		default:
			p.fail(tok, "expected case or default, found %s", describe(tok))
		}
		p.expectPunct(":")

		consequent := estree.List{}
		for !p.isPunct("}") && !p.isName("case") && !p.isName("default") {
			if p.atEOF() {
				p.fail(p.peek(), "expected \"}\", found end of input")
			}
			consequent = append(consequent, p.statement())
		}
		cases = append(cases, estree.New("SwitchCase").
			Set("test", test).
			Set("consequent", consequent))
	}
	return estree.New("SwitchStatement").
		Set("discriminant", discriminant).
		Set("cases", cases)
}
