// Package config holds the settings shared by the clog commands. Values
// come from defaults, then a YAML file, then CLOG_* environment variables.
// Command line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rubiojr/clog/reduce"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit config path is given.
const DefaultFile = ".clog.yaml"

// Config is the resolved configuration.
type Config struct {
	MaxPasses int  `yaml:"max_passes"`
	NodeLimit int  `yaml:"node_limit"`
	Trace     bool `yaml:"trace"`
	Color     bool `yaml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{MaxPasses: reduce.DefaultMaxPasses, Color: true}
}

// Load resolves the configuration. An empty path reads DefaultFile if it
// exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxPasses < 1 {
		return fmt.Errorf("max_passes must be positive, got %d", c.MaxPasses)
	}
	if c.NodeLimit < 0 {
		return fmt.Errorf("node_limit must not be negative, got %d", c.NodeLimit)
	}
	return nil
}

func (c *Config) applyEnv() {
	if n := env.Int("CLOG_MAX_PASSES", c.MaxPasses); n > 0 {
		c.MaxPasses = n
	}
	if n := env.Int("CLOG_NODE_LIMIT", c.NodeLimit); n >= 0 {
		c.NodeLimit = n
	}
	if env.Has("CLOG_TRACE") {
		c.Trace = env.Bool("CLOG_TRACE")
	}
	if env.Has("CLOG_COLOR") {
		c.Color = env.Bool("CLOG_COLOR")
	}
	if env.Has("NO_COLOR") {
		c.Color = false
	}
}
