package estree

import (
	"github.com/bytedance/sonic"

	"github.com/teranos/astbuild/errors"
)

// positionKeys are dropped on decode: the synthesizer never reads them
var positionKeys = map[string]bool{
	"loc":      true,
	"start":    true,
	"end":      true,
	"range":    true,
	"comments": true,
	"tokens":   true,
}

// DecodeJSON converts ESTree JSON (as printed by acorn, espree or
// `astbuild parse`) into a tree. Literal nodes carrying a "regex" record
// get a *RegExp value.
func DecodeJSON(data []byte) (Value, error) {
	var raw interface{}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode ESTree JSON")
	}
	return fromJSON(raw)
}

// DecodeProgram decodes JSON and returns the tree wrapped in a File root.
// A bare Program (acorn's output) is wrapped; a File is returned as is.
func DecodeProgram(data []byte) (*Node, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*Node)
	if !ok {
		return nil, errors.Newf("ESTree JSON root must be a node, got %s", Describe(v))
	}
	switch n.Type {
	case "File":
		return n, nil
	case "Program":
		return File(n), nil
	default:
		return nil, errors.Newf("ESTree JSON root must be File or Program, got %s", n.Type)
	}
}

func fromJSON(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case []interface{}:
		list := make(List, 0, len(t))
		for _, item := range t {
			v, err := fromJSON(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case map[string]interface{}:
		typ, ok := t["type"].(string)
		if !ok {
			obj := make(Object, len(t))
			for k, item := range t {
				v, err := fromJSON(item)
				if err != nil {
					return nil, err
				}
				obj[k] = v
			}
			return obj, nil
		}
		n := New(typ)
		for k, item := range t {
			if k == "type" || positionKeys[k] {
				continue
			}
			v, err := fromJSON(item)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", typ, k)
			}
			n.Fields[k] = v
		}
		if typ == "Literal" {
			if re, ok := n.Fields["regex"].(Object); ok {
				pattern, _ := re["pattern"].(String)
				flags, _ := re["flags"].(String)
				n.Fields["value"] = &RegExp{Pattern: string(pattern), Flags: string(flags)}
				delete(n.Fields, "regex")
			}
		}
		return n, nil
	default:
		return nil, errors.Newf("unexpected JSON value of type %T", raw)
	}
}

// EncodeJSON renders a tree as indented ESTree JSON with sorted keys
func EncodeJSON(v Value) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(toJSON(v), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode ESTree JSON")
	}
	return data, nil
}

func toJSON(v Value) interface{} {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case *RegExp:
		return map[string]interface{}{"pattern": t.Pattern, "flags": t.Flags}
	case List:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = toJSON(item)
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = toJSON(item)
		}
		return out
	case *Node:
		out := make(map[string]interface{}, len(t.Fields)+1)
		out["type"] = t.Type
		for k, item := range t.Fields {
			out[k] = toJSON(item)
		}
		if re, ok := t.Fields["value"].(*RegExp); ok && t.Type == "Literal" {
			out["value"] = nil
			out["regex"] = toJSON(re)
		}
		return out
	default:
		return nil
	}
}
