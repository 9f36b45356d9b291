package signature

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/teranos/astbuild/errors"
)

// StaticProvider answers from a fixed kind -> parameters table
type StaticProvider struct {
	name  string
	table map[string][]string
}

// NewStaticProvider returns a provider over a copy of table
func NewStaticProvider(name string, table map[string][]string) *StaticProvider {
	copied := make(map[string][]string, len(table))
	for k, v := range table {
		copied[k] = append([]string{}, v...)
	}
	return &StaticProvider{name: name, table: copied}
}

// Name implements Provider
func (s *StaticProvider) Name() string {
	return s.name
}

// Signature implements Provider
func (s *StaticProvider) Signature(kind string) ([]string, error) {
	params, ok := s.table[kind]
	if !ok {
		return nil, errors.NewSchemaDiscoveryError("no static signature for %s", kind)
	}
	return params, nil
}

// Kinds returns the kinds in the table, sorted
func (s *StaticProvider) Kinds() []string {
	kinds := make([]string, 0, len(s.table))
	for k := range s.table {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// File is the on-disk form of a signature table
type File struct {
	SchemaVersion string              `toml:"schema_version"`
	Signatures    map[string][]string `toml:"signatures"`
}

// LoadFile reads a TOML signature table
func LoadFile(path string) (*StaticProvider, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read signature file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Newf("signature file %s: unknown key %s", path, undecoded[0].String())
	}
	if len(f.Signatures) == 0 {
		return nil, errors.Newf("signature file %s has no [signatures] table", path)
	}
	return NewStaticProvider("file:"+path, f.Signatures), nil
}

// Encode renders a signature table as TOML
func Encode(f File) (string, error) {
	data, err := gotoml.Marshal(f)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode signature table")
	}
	return string(data), nil
}

// WriteFile writes a TOML signature table
func WriteFile(path string, f File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return errors.Wrapf(err, "failed to write signature file %s", path)
	}
	return nil
}
