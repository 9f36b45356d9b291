// Package synth rewrites a syntax tree into a construction expression: a
// tree of builder calls which, evaluated against the builder library,
// rebuilds the original tree.
package synth

import (
	"github.com/teranos/astbuild/estree"
)

// Expr is a construction expression. The set of implementations is closed;
// the layout package rejects anything else.
type Expr interface {
	exprNode()
}

// Statement terminates the wrapped expression with a semicolon
type Statement struct {
	Expr Expr
}

// Call applies Callee to Args
type Call struct {
	Callee Expr
	Args   []Expr
}

// Member is obj.prop, or obj[prop] when Computed
type Member struct {
	Object   Expr
	Property Expr
	Computed bool
}

// Name is a bare identifier reference
type Name struct {
	Name string
}

// Array is an array literal
type Array struct {
	Elements []Expr
}

// Literal is a primitive value. Raw, when set, is printed verbatim.
type Literal struct {
	Value estree.Value
	Raw   string
}

// Record is an object literal of primitive entries, keys sorted
type Record struct {
	Fields []RecordField
}

// RecordField is one key and value of a Record
type RecordField struct {
	Key   string
	Value *Literal
}

func (*Statement) exprNode() {}
func (*Call) exprNode()      {}
func (*Member) exprNode()    {}
func (*Name) exprNode()      {}
func (*Array) exprNode()     {}
func (*Literal) exprNode()   {}
func (*Record) exprNode()    {}
