// Package signature discovers builder signatures: for a node type, the
// ordered field names its builder takes as positional arguments.
package signature

import (
	"github.com/teranos/astbuild/errors"
)

// Provider supplies the build parameters for a node type
type Provider interface {
	// Signature returns the ordered parameter names for kind
	Signature(kind string) ([]string, error)
	// Name identifies the provider in logs and CLI output
	Name() string
}

// Chain tries providers in order and returns the first signature found
type Chain []Provider

// Signature implements Provider
func (c Chain) Signature(kind string) ([]string, error) {
	if len(c) == 0 {
		return nil, errors.NewSchemaDiscoveryError("no signature providers configured for %s", kind)
	}
	var first error
	for _, p := range c {
		params, err := p.Signature(kind)
		if err == nil {
			return params, nil
		}
		if first == nil {
			first = err
		} else {
			first = errors.WithSecondaryError(first, err)
		}
	}
	return nil, first
}

// Name implements Provider
func (c Chain) Name() string {
	name := ""
	for i, p := range c {
		if i > 0 {
			name += "+"
		}
		name += p.Name()
	}
	return name
}
