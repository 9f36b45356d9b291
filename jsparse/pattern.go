package jsparse

import (
	"github.com/teranos/astbuild/estree"
)

// startsBinding reports whether tok can open a binding after let
func startsBinding(tok Token) bool {
	switch tok.Kind {
	case TokenName:
		return true
	case TokenPunct:
		return tok.Value == "[" || tok.Value == "{"
	}
	return false
}

// bindingTarget parses an identifier or a destructuring pattern
func (p *parser) bindingTarget() *estree.Node {
	switch {
	case p.isPunct("["):
		return p.arrayPattern()
	case p.isPunct("{"):
		return p.objectPattern()
	}
	return p.identifier()
}

// bindingElement is a binding target with an optional default
func (p *parser) bindingElement() *estree.Node {
	target := p.bindingTarget()
	if p.matchPunct("=") {
		return estree.New("AssignmentPattern").
			Set("left", target).
			Set("right", p.assignment())
	}
	return target
}

func (p *parser) arrayPattern() *estree.Node {
	p.expectPunct("[")
	elements := estree.List{}
	for !p.isPunct("]") {
		if p.matchPunct(",") {
			elements = append(elements, estree.Null{})
			continue
		}
		if p.matchPunct("...") {
			elements = append(elements, estree.New("RestElement").Set("argument", p.bindingTarget()))
			if !p.isPunct("]") {
				p.fail(p.peek(), "rest element must be last")
			}
			break
		}
		elements = append(elements, p.bindingElement())
		if p.isPunct("]") {
			break
		}
		p.expectPunct(",")
	}
	p.expectPunct("]")
	return estree.New("ArrayPattern").Set("elements", elements)
}

func (p *parser) objectPattern() *estree.Node {
	p.expectPunct("{")
	properties := estree.List{}
	for !p.isPunct("}") {
		if p.matchPunct("...") {
			properties = append(properties, estree.New("RestElement").Set("argument", p.identifier()))
			if !p.isPunct("}") {
				p.fail(p.peek(), "rest element must be last")
			}
			break
		}

		tok := p.peek()
		key, computed := p.propertyKey()
		if p.matchPunct(":") {
			properties = append(properties, newProperty("init", key, p.bindingElement(), computed))
		} else {
			if computed || tok.Kind != TokenName || isReserved(tok.Value) {
				p.fail(p.peek(), "expected \":\" after property key, found %s", describe(p.peek()))
			}
			value := estree.Ident(tok.Value)
			if p.matchPunct("=") {
				value = estree.New("AssignmentPattern").
					Set("left", value).
					Set("right", p.assignment())
			}
			properties = append(properties, newProperty("init", key, value, false).
				Set("shorthand", estree.Bool(true)))
		}

		if p.isPunct("}") {
			break
		}
		p.expectPunct(",")
	}
	p.expectPunct("}")
	return estree.New("ObjectPattern").Set("properties", properties)
}

// toPattern reinterprets an array or object literal parsed as an
// expression as the assignment pattern it turned out to be
func (p *parser) toPattern(n *estree.Node, at Token) *estree.Node {
	switch n.Type {
	case "Identifier", "MemberExpression", "ArrayPattern", "ObjectPattern", "AssignmentPattern":
		return n

	case "AssignmentExpression":
		if n.Str("operator") == "=" {
			return estree.New("AssignmentPattern").
				Set("left", p.toPattern(n.Node("left"), at)).
				Set("right", n.Node("right"))
		}

	case "ArrayExpression":
		elements := n.List("elements")
		out := make(estree.List, len(elements))
		for i, el := range elements {
			if estree.IsNull(el) {
				out[i] = estree.Null{}
				continue
			}
			child := el.(*estree.Node)
			if child.Type == "SpreadElement" {
				if i != len(elements)-1 {
					p.fail(at, "rest element must be last")
				}
				out[i] = estree.New("RestElement").Set("argument", p.toPattern(child.Node("argument"), at))
				continue
			}
			out[i] = p.toPattern(child, at)
		}
		return estree.New("ArrayPattern").Set("elements", out)

	case "ObjectExpression":
		props := n.List("properties")
		out := make(estree.List, len(props))
		for i, item := range props {
			prop := item.(*estree.Node)
			if prop.Type == "SpreadElement" {
				if i != len(props)-1 {
					p.fail(at, "rest element must be last")
				}
				out[i] = estree.New("RestElement").Set("argument", p.toPattern(prop.Node("argument"), at))
				continue
			}
			if prop.Str("kind") != "init" || prop.Bool("method") {
				p.fail(at, "invalid destructuring target")
			}
			out[i] = newProperty("init", prop.Node("key"), p.toPattern(prop.Node("value"), at), prop.Bool("computed")).
				Set("shorthand", estree.Bool(prop.Bool("shorthand")))
		}
		return estree.New("ObjectPattern").Set("properties", out)
	}

	p.fail(at, "invalid assignment target")
	return nil
}
