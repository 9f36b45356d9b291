// Package config loads astbuild settings from defaults, TOML files and
// ASTBUILD_* environment variables.
package config

import "time"

// Config represents the astbuild configuration
type Config struct {
	Builder BuilderConfig `mapstructure:"builder" toml:"builder"`
	Input   InputConfig   `mapstructure:"input" toml:"input"`
	Replace ReplaceConfig `mapstructure:"replace" toml:"replace"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch"`
}

// BuilderConfig selects the builder namespace and signature source
type BuilderConfig struct {
	Namespace     string `mapstructure:"namespace" toml:"namespace"`           // identifier generated code calls builders on (default: b)
	Provider      string `mapstructure:"provider" toml:"provider"`             // static, probe or chain (default: static)
	SignatureFile string `mapstructure:"signature_file" toml:"signature_file"` // TOML signature table; empty = embedded schema
}

// InputConfig configures how input is read
type InputConfig struct {
	Format string `mapstructure:"format" toml:"format"` // js or json (default: js)
}

// ReplaceConfig holds default identifier replacements
type ReplaceConfig struct {
	Pairs string `mapstructure:"pairs" toml:"pairs"` // shell-quoted name=fragment list
}

// WatchConfig configures the watch command
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // quiet period before regenerating (default: 200)
}

// Signature providers
const (
	ProviderStatic = "static"
	ProviderProbe  = "probe"
	ProviderChain  = "chain"
)

// Input formats
const (
	FormatJS   = "js"
	FormatJSON = "json"
)

// Debounce returns the watch debounce period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
