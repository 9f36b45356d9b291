package synth

import (
	"go.uber.org/zap"

	"github.com/teranos/astbuild/builders"
	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
	"github.com/teranos/astbuild/logger"
)

// DefaultNamespace is the name the generated code uses for the builder library
const DefaultNamespace = "b"

// Resolver supplies builder signatures (see package signature)
type Resolver interface {
	Resolve(kind string) ([]string, error)
}

// Synthesizer turns syntax trees into construction expressions
type Synthesizer struct {
	resolver  Resolver
	namespace string
	log       *zap.SugaredLogger
}

// New returns a synthesizer emitting calls on the given namespace
func New(resolver Resolver, namespace string) *Synthesizer {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Synthesizer{
		resolver:  resolver,
		namespace: namespace,
		log:       logger.ComponentLogger("synth"),
	}
}

// Namespace returns the builder namespace name
func (s *Synthesizer) Namespace() string {
	return s.namespace
}

// Synthesize rewrites v into builder calls, splicing replacements for
// identifiers. Any failure aborts the whole synthesis.
func (s *Synthesizer) Synthesize(v estree.Value, repl *Replacements) (Expr, error) {
	if repl == nil {
		repl = NoReplacements
	}
	return s.synth(v, repl)
}

func (s *Synthesizer) synth(v estree.Value, repl *Replacements) (Expr, error) {
	if n, ok := v.(*estree.Node); ok && n != nil {
		switch n.Type {
		case "File":
			program, ok := n.Get("program")
			if !ok {
				return nil, unrecognized(n, "File without program")
			}
			inner, err := s.synth(program, repl)
			if err != nil {
				return nil, err
			}
			return &Statement{Expr: inner}, nil
		case "Program":
			body, ok := n.Fields["body"].(estree.List)
			if !ok {
				return nil, unrecognized(n, "Program without body list")
			}
			arr, err := s.synthList(body, repl)
			if err != nil {
				return nil, err
			}
			return s.call("Program", []Expr{arr}), nil
		}
	}

	switch t := v.(type) {
	case estree.List:
		return s.synthList(t, repl)
	case *estree.RegExp:
		return &Literal{Value: t, Raw: t.String()}, nil
	case *estree.Node:
		if t == nil {
			return nil, unrecognized(v, "nil node")
		}
		return s.synthNode(t, repl)
	default:
		return nil, unrecognized(v, "not a node, list or regular expression")
	}
}

func (s *Synthesizer) synthList(list estree.List, repl *Replacements) (*Array, error) {
	arr := &Array{Elements: make([]Expr, 0, len(list))}
	for i, item := range list {
		if _, hole := item.(estree.Null); hole {
			arr.Elements = append(arr.Elements, &Literal{Value: estree.Null{}})
			continue
		}
		e, err := s.synth(item, repl)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		arr.Elements = append(arr.Elements, e)
	}
	return arr, nil
}

func (s *Synthesizer) synthNode(n *estree.Node, repl *Replacements) (Expr, error) {
	if n.Type == "Identifier" {
		name := n.Str("name")
		if frag, src, ok := repl.Lookup(name); ok {
			s.log.Debugw("spliced replacement",
				logger.FieldName, name,
				logger.FieldFragment, src)
			return s.synth(frag, repl.Shadow(name))
		}
	}

	params, err := s.resolver.Resolve(n.Type)
	if err != nil {
		return nil, err
	}

	args := make([]Expr, 0, len(params))
	for _, param := range params {
		if param == "type" || isPositionField(param) {
			continue
		}
		fv, ok := n.Get(param)
		if !ok {
			// absent: later arguments shift left
			continue
		}
		switch t := fv.(type) {
		case estree.Object:
			r, err := record(t)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", n.Type, param)
			}
			args = append(args, r)
		case *estree.Node, estree.List, *estree.RegExp:
			e, err := s.synth(fv, repl)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", n.Type, param)
			}
			args = append(args, e)
		default:
			args = append(args, &Literal{Value: fv})
		}
	}
	return s.call(n.Type, args), nil
}

// record turns a field holding an untyped map into an object literal.
// Only primitive entries are accepted; nested nodes or lists have no
// builder to rebuild them.
func record(obj estree.Object) (*Record, error) {
	r := &Record{Fields: make([]RecordField, 0, len(obj))}
	for _, key := range obj.Keys() {
		v := obj[key]
		if !estree.IsPrimitive(v) {
			return nil, unrecognized(v, "record entry "+key+" is not a primitive")
		}
		r.Fields = append(r.Fields, RecordField{Key: key, Value: &Literal{Value: v}})
	}
	return r, nil
}

func (s *Synthesizer) call(kind string, args []Expr) *Call {
	return &Call{
		Callee: &Member{
			Object:   &Name{Name: s.namespace},
			Property: &Name{Name: builders.BuilderName(kind)},
		},
		Args: args,
	}
}

func isPositionField(name string) bool {
	switch name {
	case "loc", "start", "end", "range":
		return true
	}
	return false
}

func unrecognized(v estree.Value, why string) error {
	return errors.WithDetailf(
		errors.Wrapf(errors.ErrUnrecognizedNode, "cannot synthesize %s (%s)", estree.Describe(v), why),
		"value: %#v", v)
}
