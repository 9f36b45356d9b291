package config

import (
	"regexp"

	"github.com/teranos/astbuild/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !identifierPattern.MatchString(c.Builder.Namespace) {
		return errors.WithHint(
			errors.Newf("builder.namespace must be a JavaScript identifier, got %q", c.Builder.Namespace),
			"the generated code calls builders as <namespace>.<builder>(...)")
	}

	switch c.Builder.Provider {
	case ProviderStatic, ProviderProbe, ProviderChain:
	default:
		return errors.Newf("builder.provider must be one of static, probe, chain; got %q", c.Builder.Provider)
	}

	switch c.Input.Format {
	case FormatJS, FormatJSON:
	default:
		return errors.Newf("input.format must be js or json, got %q", c.Input.Format)
	}

	// 0 = regenerate immediately, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
