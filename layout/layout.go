// Package layout decides how construction expressions are laid out and
// renders them as source text.
package layout

import (
	"strings"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
	"github.com/teranos/astbuild/synth"
)

// IsMultiline reports whether expr must be spread across several lines.
//
// A call breaks when it has more than one argument or any multiline
// argument; an array likewise for its elements. Names never break, and a
// literal breaks only when its text contains a line break. A record stays
// on one line unless one of its values breaks.
func IsMultiline(expr synth.Expr) (bool, error) {
	switch e := expr.(type) {
	case *synth.Statement:
		return IsMultiline(e.Expr)
	case *synth.Call:
		if len(e.Args) > 1 {
			return true, nil
		}
		return anyMultiline(e.Args)
	case *synth.Member:
		if ml, err := IsMultiline(e.Object); err != nil || ml {
			return ml, err
		}
		return IsMultiline(e.Property)
	case *synth.Name:
		return false, nil
	case *synth.Array:
		if len(e.Elements) > 1 {
			return true, nil
		}
		return anyMultiline(e.Elements)
	case *synth.Literal:
		text, err := literalText(e)
		if err != nil {
			return false, err
		}
		return strings.ContainsAny(text, "\n\r"), nil
	case *synth.Record:
		for _, f := range e.Fields {
			if ml, err := IsMultiline(f.Value); err != nil || ml {
				return ml, err
			}
		}
		return false, nil
	default:
		return false, unsupported(expr)
	}
}

func anyMultiline(exprs []synth.Expr) (bool, error) {
	for _, e := range exprs {
		ml, err := IsMultiline(e)
		if err != nil || ml {
			return ml, err
		}
	}
	return false, nil
}

func unsupported(expr synth.Expr) error {
	return errors.WithDetailf(
		errors.Wrapf(errors.ErrUnsupportedLayout, "cannot lay out %T", expr),
		"expression: %#v", expr)
}

// literalText is the source form of a literal
func literalText(l *synth.Literal) (string, error) {
	if l.Raw != "" {
		return l.Raw, nil
	}
	switch v := l.Value.(type) {
	case nil, estree.Null:
		return "null", nil
	case estree.Bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case estree.Number:
		return estree.FormatNumber(float64(v)), nil
	case estree.String:
		return Quote(string(v)), nil
	case *estree.RegExp:
		return v.String(), nil
	default:
		return "", errors.WithDetailf(
			errors.Wrapf(errors.ErrUnsupportedLayout, "cannot print literal %s", estree.Describe(l.Value)),
			"value: %#v", l.Value)
	}
}
