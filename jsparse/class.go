package jsparse

import (
	"github.com/teranos/astbuild/estree"
)

// class parses a class after the 'class' keyword
func (p *parser) class(typ string, requireName bool) *estree.Node {
	var id estree.Value = estree.Null{}
	if tok := p.peek(); tok.Kind == TokenName && tok.Value != "extends" {
		id = p.identifier()
	} else if requireName {
		p.fail(tok, "class declaration requires a name")
	}

	var superClass estree.Value = estree.Null{}
	if p.matchName("extends") {
		superClass = p.leftHandSide()
	}

	return estree.New(typ).
		Set("id", id).
		Set("superClass", superClass).
		Set("body", p.classBody())
}

func (p *parser) classBody() *estree.Node {
	p.expectPunct("{")
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	members := estree.List{}
	for !p.isPunct("}") {
		if p.atEOF() {
			p.fail(p.peek(), "expected \"}\", found end of input")
		}
		if p.matchPunct(";") {
			continue
		}
		members = append(members, p.classMember())
	}
	p.advance()
	return estree.New("ClassBody").Set("body", members)
}

// classMember parses a method, accessor or constructor
func (p *parser) classMember() *estree.Node {
	static := false
	if p.isName("static") {
		if next := p.peekAt(1); !(next.Kind == TokenPunct && (next.Value == "(" || next.Value == "=")) {
			p.advance()
			static = true
		}
	}

	accessor, async, generator := p.methodPrefix()
	keyTok := p.peek()
	key, computed := p.propertyKey()
	if computed {
		p.fail(keyTok, "computed class member names are not supported")
	}
	if !p.isPunct("(") {
		p.fail(p.peek(), "class fields are not supported")
	}

	kind := accessor
	if kind == "" {
		kind = "method"
		if !static && isConstructorKey(key) {
			if async || generator {
				p.fail(keyTok, "class constructor may not be async or a generator")
			}
			kind = "constructor"
		}
	}

	return estree.New("MethodDefinition").
		Set("kind", estree.String(kind)).
		Set("key", key).
		Set("value", p.method(async, generator)).
		Set("computed", estree.Bool(false)).
		Set("static", estree.Bool(static))
}

func isConstructorKey(key *estree.Node) bool {
	switch key.Type {
	case "Identifier":
		return key.Str("name") == "constructor"
	case "Literal":
		v, _ := key.Get("value")
		return v == estree.String("constructor")
	}
	return false
}

// methodPrefix consumes the get, set, async or * ahead of a method key.
// A prefix word directly followed by "(", ":", "," or "}" is itself the key.
func (p *parser) methodPrefix() (accessor string, async, generator bool) {
	tok, next := p.peek(), p.peekAt(1)
	if tok.Kind == TokenName {
		switch tok.Value {
		case "get", "set":
			if startsPropertyKey(next) {
				p.advance()
				return tok.Value, false, false
			}
		case "async":
			if !next.NewlineBefore && (startsPropertyKey(next) || (next.Kind == TokenPunct && next.Value == "*")) {
				p.advance()
				async = true
			}
		}
	}
	generator = p.matchPunct("*")
	return "", async, generator
}

func startsPropertyKey(tok Token) bool {
	switch tok.Kind {
	case TokenName, TokenString, TokenNumber:
		return true
	case TokenPunct:
		return tok.Value == "["
	}
	return false
}

// method parses the parameters and body of a method into an anonymous
// FunctionExpression
func (p *parser) method(async, generator bool) *estree.Node {
	return p.functionRest("FunctionExpression", estree.Null{}, async, generator)
}
