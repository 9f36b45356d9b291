package synth

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/astbuild/errors"
	"github.com/teranos/astbuild/estree"
)

// ExpressionParser parses a source fragment as a single expression
type ExpressionParser interface {
	ParseExpression(src string) (*estree.Node, error)
}

// Pair is one name=fragment replacement as given by the caller
type Pair struct {
	Name     string
	Fragment string
}

// ParsePair splits "name=fragment" on the first '='
func ParsePair(s string) (Pair, error) {
	name, fragment, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Pair{}, errors.WithHint(
			errors.Newf("invalid replacement %q", s),
			"replacements are written name=expression, e.g. x='y + 1'")
	}
	return Pair{Name: name, Fragment: fragment}, nil
}

// ParsePairs splits a shell-quoted list such as `x='y + 1' z=foo`
func ParsePairs(s string) ([]Pair, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid replacement list %q", s)
	}
	pairs := make([]Pair, 0, len(words))
	for _, w := range words {
		p, err := ParsePair(w)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// Replacements maps identifier names to pre-parsed fragments.
//
// A table is immutable. Shadow returns a child overlay hiding one name;
// lookups walk up to the root, so siblings holding the parent never see a
// child's shadow.
type Replacements struct {
	parent *Replacements
	// root only
	fragments map[string]*estree.Node
	sources   map[string]string
	// overlay only
	hidden string
}

// NoReplacements is the empty table
var NoReplacements = &Replacements{}

// NewReplacements parses every fragment up front. Later pairs win over
// earlier pairs with the same name.
func NewReplacements(parser ExpressionParser, pairs []Pair) (*Replacements, error) {
	r := &Replacements{
		fragments: make(map[string]*estree.Node, len(pairs)),
		sources:   make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		expr, err := parser.ParseExpression(p.Fragment)
		if err != nil {
			return nil, errors.WithDetailf(
				errors.Wrapf(errors.ErrReplacementParse, "replacement %s=%q: %v", p.Name, p.Fragment, err),
				"fragment: %s", p.Fragment)
		}
		r.fragments[p.Name] = expr
		r.sources[p.Name] = p.Fragment
	}
	return r, nil
}

// Lookup returns the live fragment for name, if any
func (r *Replacements) Lookup(name string) (*estree.Node, string, bool) {
	for t := r; t != nil; t = t.parent {
		if t.parent != nil {
			if t.hidden == name {
				return nil, "", false
			}
			continue
		}
		frag, ok := t.fragments[name]
		if !ok {
			return nil, "", false
		}
		return frag, t.sources[name], true
	}
	return nil, "", false
}

// Shadow returns a table in which name has no replacement
func (r *Replacements) Shadow(name string) *Replacements {
	return &Replacements{parent: r, hidden: name}
}

// Len returns the number of names in the root table
func (r *Replacements) Len() int {
	t := r
	for t.parent != nil {
		t = t.parent
	}
	return len(t.fragments)
}
