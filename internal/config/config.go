// Package config provides layered configuration for the unifyeq CLI.
//
// Precedence (highest to lowest): flags > UNIFYEQ_ env vars > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/orizon-lang/unifyeq/internal/meta"
)

// EnvPrefix prefixes environment variables read by Load.
const EnvPrefix = "UNIFYEQ_"

// Default values.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultJobs      = 4
)

// File names searched in the working directory when no config file is given.
var defaultFiles = []string{"unifyeq.yaml", "unifyeq.yml"}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all CLI configuration options.
type Config struct {
	LogLevel  string   `koanf:"log_level"`
	LogFormat string   `koanf:"log_format"`
	Trace     []string `koanf:"trace"`
	// Jobs bounds how many problem files are resolved at once.
	Jobs  int  `koanf:"jobs"`
	Watch bool `koanf:"watch"`
	// Width of rendered tables. Zero probes the terminal.
	Width         int `koanf:"width"`
	MaxWHNFSteps  int `koanf:"max_whnf_steps"`
	MaxDefEqDepth int `koanf:"max_defeq_depth"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Load reads configuration from defaults, the config file, the environment and
// the flags that were explicitly set. cfgFile may be empty.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":       DefaultLogLevel,
		"log_format":      DefaultLogFormat,
		"trace":           []string{},
		"jobs":            DefaultJobs,
		"watch":           false,
		"width":           0,
		"max_whnf_steps":  meta.DefaultMaxWHNFSteps,
		"max_defeq_depth": meta.DefaultMaxDefEqDepth,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// UNIFYEQ_LOG_LEVEL -> log_level. Trace classes are comma separated.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "trace" {
			return key, splitList(value)
		}

		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}

			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	if !lo.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, expected one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}

	if !lo.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q, expected one of %s", c.LogFormat, strings.Join(logFormats, ", "))
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}

	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}

	return nil
}

// MetaConfig returns the oracle limits.
func (c *Config) MetaConfig() meta.Config {
	return meta.Config{MaxWHNFSteps: c.MaxWHNFSteps, MaxDefEqDepth: c.MaxDefEqDepth}
}

// findConfigFile returns explicit, or the first default file present in the
// working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	return ""
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string { return strings.TrimSpace(p) })

	return lo.Compact(parts)
}
