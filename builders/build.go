package builders

import (
	"strconv"
	"strings"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
)

// Build constructs a node of the given type from positional arguments.
// Missing trailing arguments take their field defaults; a missing argument
// without a default fails with the conventional parameter-list message.
func (l *Library) Build(kind string, args ...estree.Value) (*estree.Node, error) {
	def, ok := l.defs[kind]
	if !ok {
		return nil, errors.Wrapf(errors.ErrBuild, "no builder for node type %s", kind)
	}
	if len(args) > len(def.Build) {
		return nil, errors.Wrapf(errors.ErrBuild, "too many arguments to %s: got %d, want at most %d",
			BuilderName(kind), len(args), len(def.Build))
	}

	node := estree.New(kind)
	for i, param := range def.Build {
		field := def.Fields[param]
		if i < len(args) && args[i] != nil {
			if err := checkKind(def, param, field.Kind, args[i]); err != nil {
				return nil, err
			}
			node.Fields[param] = args[i]
			continue
		}
		if !field.HasDefault() {
			return nil, errors.Wrap(errors.ErrBuild, missingFieldMessage(def, param))
		}
		v, err := defaultValue(field)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s default", kind, param)
		}
		node.Fields[param] = v
	}

	for name, field := range def.Fields {
		if _, set := node.Fields[name]; set || !field.HasDefault() {
			continue
		}
		v, err := defaultValue(field)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s default", kind, name)
		}
		node.Fields[name] = v
	}
	return node, nil
}

// BuildByName is Build keyed by builder name, as generated code calls it
func (l *Library) BuildByName(builderName string, args ...estree.Value) (*estree.Node, error) {
	kind, ok := l.KindFor(builderName)
	if !ok {
		return nil, errors.Wrapf(errors.ErrBuild, "no builder named %s", builderName)
	}
	return l.Build(kind, args...)
}

// Probe calls the builder with no arguments and returns its failure.
// A nil result means the builder accepted zero arguments.
func (l *Library) Probe(kind string) error {
	_, err := l.Build(kind)
	return err
}

func missingFieldMessage(def *NodeDef, param string) string {
	quoted := make([]string, len(def.Build))
	for i, p := range def.Build {
		quoted[i] = strconv.Quote(p)
	}
	return "no value or default function given for field " + strconv.Quote(param) +
		" of " + def.Type + "(" + strings.Join(quoted, ", ") + ")"
}

func checkKind(def *NodeDef, param, kind string, v estree.Value) error {
	ok := false
	switch kind {
	case KindNode:
		_, ok = v.(*estree.Node)
	case KindOptional:
		_, ok = v.(*estree.Node)
		ok = ok || estree.IsNull(v)
	case KindNodes:
		var list estree.List
		list, ok = v.(estree.List)
		for _, item := range list {
			if _, isNode := item.(*estree.Node); !isNode && !estree.IsNull(item) {
				ok = false
			}
		}
	case KindString:
		_, ok = v.(estree.String)
	case KindBoolean:
		_, ok = v.(estree.Bool)
	case KindLiteral:
		switch v.(type) {
		case estree.Null, estree.Bool, estree.Number, estree.String, *estree.RegExp:
			ok = true
		}
	case KindRecord:
		var record estree.Object
		record, ok = v.(estree.Object)
		for _, entry := range record {
			if !estree.IsPrimitive(entry) {
				ok = false
			}
		}
	}
	if !ok {
		return errors.Wrapf(errors.ErrBuild, "%s: field %q expects %s, got %s",
			BuilderName(def.Type), param, kind, estree.Describe(v))
	}
	return nil
}

func defaultValue(field FieldDef) (estree.Value, error) {
	var raw interface{}
	if err := field.Default.Decode(&raw); err != nil {
		return nil, err
	}
	switch t := raw.(type) {
	case nil:
		return estree.Null{}, nil
	case bool:
		return estree.Bool(t), nil
	case string:
		return estree.String(t), nil
	case int:
		return estree.Number(t), nil
	case float64:
		return estree.Number(t), nil
	case []interface{}:
		if len(t) != 0 {
			return nil, errors.New("list defaults must be empty")
		}
		return estree.List{}, nil
	default:
		return nil, errors.Newf("unsupported default of type %T", raw)
	}
}
