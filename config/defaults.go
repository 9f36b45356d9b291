package config

import (
	"github.com/spf13/viper"
)

// DefaultDirPermissions is used when creating configuration directories
const DefaultDirPermissions = 0750

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("builder.namespace", "b")
	v.SetDefault("builder.provider", ProviderStatic)
	v.SetDefault("builder.signature_file", "")

	v.SetDefault("input.format", FormatJS)

	v.SetDefault("replace.pairs", "")

	v.SetDefault("watch.debounce_ms", 200)
}

// Defaults returns a Config holding only default values
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	var c Config
	// defaults always decode
	_ = v.Unmarshal(&c)
	return &c
}
