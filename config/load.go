package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/astbuild/errors"
)

// ProjectConfigName is the per-project file found by walking up from the working directory
const ProjectConfigName = "astbuild.toml"

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the configuration from defaults, config files and the
// environment. The result is cached until Reset.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper("")
	if err != nil {
		return nil, err
	}
	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = config
	return globalConfig, nil
}

// LoadFile is Load with an explicit config file merged above the searched
// ones. The explicit file must exist.
func LoadFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	Reset()
	v, err := initViper(configPath)
	if err != nil {
		return nil, err
	}
	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = config
	return globalConfig, nil
}

// LoadWithViper decodes and validates configuration from a Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper initializes Viper with configuration sources and defaults.
// A config file that exists but cannot be read or parsed is an error.
func initViper(explicit string) (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	// ASTBUILD_BUILDER_NAMESPACE overrides builder.namespace
	v.SetEnvPrefix("ASTBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// system -> user -> project -> explicit, env vars above all files
	paths := ConfigPaths()
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if err := mergeConfigFiles(v, paths); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// ConfigPaths lists the config files consulted, lowest precedence first.
// Files that do not exist are skipped when loading.
func ConfigPaths() []string {
	paths := []string{"/etc/astbuild/config.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".astbuild", "config.toml"))
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, project)
	}
	return paths
}

// findProjectConfig searches for astbuild.toml by walking up the directory tree
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// mergeConfigFiles merges configuration files in order; later files win.
// Missing files are skipped.
func mergeConfigFiles(v *viper.Viper, paths []string) error {
	for _, configPath := range paths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(configPath)
		tempViper.SetConfigType("toml")

		if err := tempViper.ReadInConfig(); err != nil {
			return errors.WithHintf(
				errors.Wrapf(err, "failed to read config file %s", configPath),
				"fix the TOML syntax or remove the file")
		}
		// MergeConfigMap keeps environment variables above file values
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", configPath)
		}
	}
	return nil
}
