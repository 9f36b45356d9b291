package layout

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/teranos/astbuild/synth"
)

// IndentStep is added for each level of nesting
const IndentStep = "  "

// Render prints expr with continuation lines indented relative to indent.
// The first line carries no indentation; the caller has already placed it.
func Render(expr synth.Expr, indent string) (string, error) {
	var b strings.Builder
	if err := render(&b, expr, indent); err != nil {
		return "", err
	}
	return b.String(), nil
}

func render(b *strings.Builder, expr synth.Expr, indent string) error {
	switch e := expr.(type) {
	case *synth.Statement:
		if err := render(b, e.Expr, indent); err != nil {
			return err
		}
		b.WriteByte(';')
		return nil

	case *synth.Call:
		return renderCall(b, e, indent)

	case *synth.Member:
		if err := render(b, e.Object, indent); err != nil {
			return err
		}
		if e.Computed {
			b.WriteByte('[')
			if err := render(b, e.Property, indent); err != nil {
				return err
			}
			b.WriteByte(']')
			return nil
		}
		b.WriteByte('.')
		return render(b, e.Property, indent)

	case *synth.Name:
		b.WriteString(e.Name)
		return nil

	case *synth.Array:
		ml, err := IsMultiline(e)
		if err != nil {
			return err
		}
		b.WriteByte('[')
		if err := renderList(b, e.Elements, indent, ml); err != nil {
			return err
		}
		b.WriteByte(']')
		return nil

	case *synth.Literal:
		text, err := literalText(e)
		if err != nil {
			return err
		}
		b.WriteString(text)
		return nil

	case *synth.Record:
		b.WriteByte('{')
		for i, f := range e.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(PropertyKey(f.Key))
			b.WriteString(": ")
			if err := render(b, f.Value, indent); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil

	default:
		return unsupported(expr)
	}
}

func renderCall(b *strings.Builder, call *synth.Call, indent string) error {
	if err := render(b, call.Callee, indent); err != nil {
		return err
	}
	ml, err := IsMultiline(call)
	if err != nil {
		return err
	}

	// a sole array argument hugs the parentheses: callee([ ... ])
	if ml && len(call.Args) == 1 {
		if arr, ok := call.Args[0].(*synth.Array); ok {
			b.WriteString("([")
			if err := renderList(b, arr.Elements, indent, true); err != nil {
				return err
			}
			b.WriteString("])")
			return nil
		}
	}

	b.WriteByte('(')
	if err := renderList(b, call.Args, indent, ml); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}

// renderList writes comma-separated items, one per line when multiline,
// leaving the closing delimiter on its own line at indent
func renderList(b *strings.Builder, items []synth.Expr, indent string, multiline bool) error {
	if !multiline {
		for i, item := range items {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := render(b, item, indent); err != nil {
				return err
			}
		}
		return nil
	}

	inner := indent + IndentStep
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		b.WriteString(inner)
		if err := render(b, item, inner); err != nil {
			return err
		}
	}
	b.WriteByte('\n')
	b.WriteString(indent)
	return nil
}

// Quote returns s as a single-quoted JavaScript string literal
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		case 0:
			// \0 followed by a digit would read as an octal escape
			if i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
				b.WriteString(`\x00`)
			} else {
				b.WriteString(`\0`)
			}
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// PropertyKey returns key bare when it is an identifier name, else quoted
func PropertyKey(key string) string {
	if key == "" {
		return Quote(key)
	}
	for i, r := range key {
		start := r == '$' || r == '_' || unicode.IsLetter(r)
		if !start && (i == 0 || !unicode.IsDigit(r)) {
			return Quote(key)
		}
	}
	return key
}
