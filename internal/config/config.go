// Package config loads the optional licwatch config file and resolves the
// checker command override.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Env var names recognized as checker command overrides, checked in order;
// the first one with a non-empty value wins.
var commandEnvVars = []string{"LICENSE_CHECK_CMD", "LICENSE_CMD"}

// Config is the on-disk configuration. Every field is optional; flags
// override the file, and for the command the environment overrides both.
type Config struct {
	// Command is the checker command template, e.g.
	// "lmutil lmstat -f {feature} -c 27000@server".
	Command string `yaml:"command,omitempty"`

	// Features are the default feature names to poll.
	Features []string `yaml:"features,omitempty"`

	// Interval is the polling interval in seconds.
	Interval int `yaml:"interval,omitempty"`

	// Out, CSV, and DB are the artifact paths; DB empty disables the
	// SQLite history.
	Out string `yaml:"out,omitempty"`
	CSV string `yaml:"csv,omitempty"`
	DB  string `yaml:"db,omitempty"`

	// Title is the report document title.
	Title string `yaml:"title,omitempty"`
}

// DefaultPath returns the default config file location,
// ~/.licwatch.yaml.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".licwatch.yaml"
	}
	return filepath.Join(homeDir, ".licwatch.yaml")
}

// Load reads the config file at path. A missing file is not an error — the
// config is entirely optional — but an unreadable or malformed file is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("could not read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolveCommand returns the checker command template: the first non-empty
// override env var wins, then the config file's command, then empty (which
// selects the built-in default). The env lookup is passed in so tests can
// pin it without mutating process state.
func (c *Config) ResolveCommand(getenv func(string) string) string {
	for _, name := range commandEnvVars {
		if v := getenv(name); v != "" {
			return v
		}
	}
	return c.Command
}

// SplitFeatures parses a comma-separated feature list, trimming whitespace
// and dropping empty entries.
func SplitFeatures(s string) []string {
	var features []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return features
}
