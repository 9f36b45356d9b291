// Package estree holds the syntax tree data model shared by the parser,
// the synthesizer and the verifier.
//
// Trees follow the ESTree shape: every node has a Type and a set of named
// fields. Source position metadata is never stored, so two trees parsed
// from differently formatted text compare equal field by field.
package estree

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is a field value. The set of implementations is closed.
type Value interface {
	isValue()
}

// Null is the explicit null value. An absent field is a missing map key,
// never a Null.
type Null struct{}

// Bool is a boolean field value
type Bool bool

// Number is a numeric field value
type Number float64

// String is a string field value
type String string

// List is an ordered sequence of values, usually nodes
type List []Value

// Object is an untyped record (a map without a "type" key)
type Object map[string]Value

// RegExp is a regular-expression literal value
type RegExp struct {
	Pattern string
	Flags   string
}

// Node is a typed syntax tree node
type Node struct {
	Type   string
	Fields map[string]Value
}

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (List) isValue()    {}
func (Object) isValue()  {}
func (*RegExp) isValue() {}
func (*Node) isValue()   {}

// New creates a node of the given type with no fields
func New(typ string) *Node {
	return &Node{Type: typ, Fields: make(map[string]Value)}
}

// Set assigns a field and returns the node for chaining
func (n *Node) Set(name string, v Value) *Node {
	n.Fields[name] = v
	return n
}

// Get returns a field value and whether it is present
func (n *Node) Get(name string) (Value, bool) {
	v, ok := n.Fields[name]
	return v, ok
}

// Node returns the field as a node, or nil when absent, null or not a node
func (n *Node) Node(name string) *Node {
	child, _ := n.Fields[name].(*Node)
	return child
}

// List returns the field as a list, or nil
func (n *Node) List(name string) List {
	l, _ := n.Fields[name].(List)
	return l
}

// Str returns the field as a string, or ""
func (n *Node) Str(name string) string {
	s, _ := n.Fields[name].(String)
	return string(s)
}

// Bool returns the field as a bool, or false
func (n *Node) Bool(name string) bool {
	b, _ := n.Fields[name].(Bool)
	return bool(b)
}

// FieldNames returns the node's field names in sorted order
func (n *Node) FieldNames() []string {
	names := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders the regex in literal syntax, e.g. /ab+c/i
func (r *RegExp) String() string {
	return "/" + r.Pattern + "/" + r.Flags
}

// IsNull reports whether v is nil or Null
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// IsPrimitive reports whether v is null, a boolean, a number or a string
func IsPrimitive(v Value) bool {
	switch v.(type) {
	case Null, Bool, Number, String:
		return true
	}
	return false
}

// Keys returns the record's keys, sorted
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ident builds an Identifier node
func Ident(name string) *Node {
	return New("Identifier").Set("name", String(name))
}

// Lit builds a Literal node for a primitive value
func Lit(v Value) *Node {
	return New("Literal").Set("value", v)
}

// File wraps a Program in the File root used by the synthesizer
func File(program *Node) *Node {
	return New("File").Set("program", program)
}

// FormatNumber formats a number the way JavaScript's Number#toString does
// for the ranges that appear in source code.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go writes e-07 / e+21; JavaScript writes e-7 / e+21
		if i := strings.IndexAny(s, "e"); i >= 0 {
			mant, exp := s[:i], s[i+1:]
			sign := exp[:1]
			digits := strings.TrimLeft(exp[1:], "0")
			if digits == "" {
				digits = "0"
			}
			return mant + "e" + sign + digits
		}
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Describe renders a value for diagnostics
func Describe(v Value) string {
	switch t := v.(type) {
	case nil:
		return "<absent>"
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(t))
	case Number:
		return FormatNumber(float64(t))
	case String:
		return strconv.Quote(string(t))
	case *RegExp:
		return t.String()
	case List:
		return fmt.Sprintf("list(%d)", len(t))
	case Object:
		return "object{" + strings.Join(t.Keys(), ", ") + "}"
	case *Node:
		if t == nil {
			return "<nil node>"
		}
		return t.Type
	default:
		return fmt.Sprintf("%T", v)
	}
}
