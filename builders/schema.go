// Package builders is the builder library: one constructor per ESTree node
// type, taking the node's build parameters positionally.
//
// Definitions live in an embedded YAML schema (defs.yaml). A builder called
// without a required parameter fails with a message of the form
//
//	no value or default function given for field "left" of BinaryExpression("operator", "left", "right")
//
// which the signature package's probe provider relies on.
package builders

import (
	_ "embed"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/teranos/astbuild/errors"
)

//go:embed defs.yaml
var defaultDefs []byte

// SupportedSchema is the semver constraint a schema file must satisfy
const SupportedSchema = "^1.0.0"

// Field kinds accepted in defs.yaml
const (
	KindNode     = "node"
	KindOptional = "node?"
	KindNodes    = "nodes"
	KindString   = "string"
	KindBoolean  = "boolean"
	KindLiteral  = "literal"
	KindRecord   = "record"
)

// FieldDef describes one field of a node type
type FieldDef struct {
	Kind string `yaml:"kind"`
	// Default is the zero yaml.Node when the field has no default
	Default yaml.Node `yaml:"default"`
}

// HasDefault reports whether the field may be omitted
func (f FieldDef) HasDefault() bool {
	return f.Default.Kind != 0
}

// NodeDef describes one node type and its builder
type NodeDef struct {
	Type   string              `yaml:"type"`
	Build  []string            `yaml:"build"`
	Fields map[string]FieldDef `yaml:"fields"`
}

// Schema is the decoded form of defs.yaml
type Schema struct {
	Version string    `yaml:"version"`
	Nodes   []NodeDef `yaml:"nodes"`
}

// Library holds the node definitions indexed by type and builder name
type Library struct {
	version   *semver.Version
	defs      map[string]*NodeDef
	byBuilder map[string]string
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the library built from the embedded schema
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(defaultDefs)
	})
	if defaultErr != nil {
		// The embedded schema is part of the binary; failing to load it is a build defect.
		panic(errors.Wrap(defaultErr, "embedded builder schema"))
	}
	return defaultLib
}

// Load parses and validates a YAML schema
func Load(data []byte) (*Library, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, errors.Wrap(err, "failed to parse builder schema")
	}

	version, err := semver.NewVersion(schema.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid builder schema version %q", schema.Version)
	}
	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return nil, errors.Wrap(err, "invalid supported schema constraint")
	}
	if !constraint.Check(version) {
		return nil, errors.WithHintf(
			errors.Newf("builder schema version %s is not supported", version),
			"this build reads schemas matching %s", SupportedSchema)
	}

	lib := &Library{
		version:   version,
		defs:      make(map[string]*NodeDef, len(schema.Nodes)),
		byBuilder: make(map[string]string, len(schema.Nodes)),
	}
	for i := range schema.Nodes {
		def := &schema.Nodes[i]
		if err := validateDef(def); err != nil {
			return nil, err
		}
		if _, dup := lib.defs[def.Type]; dup {
			return nil, errors.Newf("duplicate builder definition for %s", def.Type)
		}
		lib.defs[def.Type] = def
		lib.byBuilder[BuilderName(def.Type)] = def.Type
	}
	return lib, nil
}

func validateDef(def *NodeDef) error {
	if def.Type == "" {
		return errors.New("builder definition without type")
	}
	if def.Fields == nil {
		def.Fields = map[string]FieldDef{}
	}
	for _, param := range def.Build {
		if _, ok := def.Fields[param]; !ok {
			return errors.Newf("%s: build parameter %q has no field definition", def.Type, param)
		}
	}
	for name, field := range def.Fields {
		switch field.Kind {
		case KindNode, KindOptional, KindNodes, KindString, KindBoolean, KindLiteral, KindRecord:
		default:
			return errors.Newf("%s.%s: unknown field kind %q", def.Type, name, field.Kind)
		}
		if !field.HasDefault() && !contains(def.Build, name) {
			return errors.Newf("%s.%s: field is neither a build parameter nor defaulted", def.Type, name)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Version returns the schema version
func (l *Library) Version() *semver.Version {
	return l.version
}

// Kinds returns every defined node type, sorted
func (l *Library) Kinds() []string {
	kinds := make([]string, 0, len(l.defs))
	for k := range l.defs {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Def returns the definition for a node type
func (l *Library) Def(kind string) (*NodeDef, bool) {
	def, ok := l.defs[kind]
	return def, ok
}

// KindFor maps a builder name (e.g. "binaryExpression") back to its node type
func (l *Library) KindFor(builderName string) (string, bool) {
	kind, ok := l.byBuilder[builderName]
	return kind, ok
}

// Signatures returns the build parameters of every node type
func (l *Library) Signatures() map[string][]string {
	out := make(map[string][]string, len(l.defs))
	for kind, def := range l.defs {
		out[kind] = append([]string{}, def.Build...)
	}
	return out
}

// BuilderName maps a node type to its builder name: the leading run of
// capitals is lowercased, except the last one when more than one precedes
// a lowercase letter ("BinaryExpression" -> "binaryExpression",
// "JSXElement" -> "jsxElement").
func BuilderName(kind string) string {
	n := 0
	for n < len(kind) && kind[n] >= 'A' && kind[n] <= 'Z' {
		n++
	}
	switch {
	case n == 0:
		return kind
	case n == 1 || n == len(kind):
		return strings.ToLower(kind[:n]) + kind[n:]
	default:
		return strings.ToLower(kind[:n-1]) + kind[n-1:]
	}
}
