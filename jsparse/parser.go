// Package jsparse parses a practical subset of JavaScript into estree nodes.
//
// The accepted language covers ES5 statements plus let/const, arrow
// functions, spread and rest elements, default parameters, destructuring
// patterns, template literals (tagged or not), classes with methods and
// accessors, generators, async functions, and regular expression literals.
// Modules, class fields, computed class member names, async arrow
// functions, optional chaining and for-await are rejected with a syntax
// error.
package jsparse

import (
	"fmt"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
)

// Parser implements synth.ExpressionParser.
type Parser struct{}

// ParseExpression parses src as a single expression.
func (Parser) ParseExpression(src string) (*estree.Node, error) {
	return ParseExpression(src)
}

// ParseProgram parses src as a script and returns a File node wrapping the Program.
func ParseProgram(src string) (file *estree.Node, err error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)

	var body estree.List
	for !p.atEOF() {
		body = append(body, p.statement())
	}
	return estree.File(estree.New("Program").Set("body", body).Set("sourceType", estree.String("script"))), nil
}

// ParseExpression parses src, which must consist of exactly one expression.
func ParseExpression(src string) (expr *estree.Node, err error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)

	if p.atEOF() {
		return nil, errors.NewSyntaxError("expected an expression, found end of input")
	}
	expr = p.expression()
	if !p.atEOF() {
		tok := p.peek()
		p.fail(tok, "unexpected %s after expression", describe(tok))
	}
	return expr, nil
}

// parseError carries a syntax error through panics inside the parser
type parseError struct {
	err error
}

func syntaxErrorf(line, col int, format string, args ...interface{}) error {
	return errors.NewSyntaxError("%d:%d: %s", line, col, fmt.Sprintf(format, args...))
}

type parser struct {
	tokens  []Token
	current int
	// noIn disables 'in' as a binary operator inside for-statement heads
	noIn bool
	// inAsync and inGenerator make await and yield operators
	inAsync, inGenerator bool
	// coverInits holds the '=' of shorthand properties like {a = 1}, valid
	// only once the object literal becomes an assignment pattern
	coverInits []Token
	// inElement marks the next assignment() as an array element or
	// property value, whose enclosing literal may still become a pattern
	inElement bool
}

func newParser(src string) (*parser, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &parser{tokens: tokens}, nil
}

func (p *parser) recover(err *error) {
	if r := recover(); r != nil {
		pe, ok := r.(parseError)
		if !ok {
			panic(r)
		}
		*err = pe.err
	}
}

func (p *parser) fail(tok Token, format string, args ...interface{}) {
	panic(parseError{err: syntaxErrorf(tok.Line, tok.Col, format, args...)})
}

func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Raw)
}

// Token navigation

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) peekAt(offset int) Token {
	i := p.current + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) atEOF() bool {
	return p.peek().Kind == TokenEOF
}

func (p *parser) advance() Token {
	tok := p.tokens[p.current]
	if tok.Kind != TokenEOF {
		p.current++
	}
	return tok
}

func (p *parser) isPunct(value string) bool {
	tok := p.peek()
	return tok.Kind == TokenPunct && tok.Value == value
}

func (p *parser) isName(value string) bool {
	tok := p.peek()
	return tok.Kind == TokenName && tok.Value == value
}

func (p *parser) matchPunct(value string) bool {
	if p.isPunct(value) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) matchName(value string) bool {
	if p.isName(value) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectPunct(value string) Token {
	if !p.isPunct(value) {
		tok := p.peek()
		p.fail(tok, "expected %q, found %s", value, describe(tok))
	}
	return p.advance()
}

func (p *parser) expectName(value string) Token {
	if !p.isName(value) {
		tok := p.peek()
		p.fail(tok, "expected %q, found %s", value, describe(tok))
	}
	return p.advance()
}

// consumeSemicolon applies automatic semicolon insertion
func (p *parser) consumeSemicolon() {
	if p.matchPunct(";") {
		return
	}
	tok := p.peek()
	if tok.Kind == TokenEOF || tok.NewlineBefore || p.isPunct("}") {
		return
	}
	p.fail(tok, "expected \";\", found %s", describe(tok))
}

// identifier consumes a binding or reference name
func (p *parser) identifier() *estree.Node {
	tok := p.peek()
	if tok.Kind != TokenName || isReserved(tok.Value) {
		p.fail(tok, "expected identifier, found %s", describe(tok))
	}
	p.advance()
	return estree.Ident(tok.Value)
}

// propertyName consumes any name, reserved words included
func (p *parser) propertyName() *estree.Node {
	tok := p.peek()
	if tok.Kind != TokenName {
		p.fail(tok, "expected property name, found %s", describe(tok))
	}
	p.advance()
	return estree.Ident(tok.Value)
}
