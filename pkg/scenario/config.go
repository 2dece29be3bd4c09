package scenario

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/vito/binder/pkg/binder"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "binder.toml"

// Config represents a binder.toml project configuration file.
type Config struct {
	// Mode is the default binding mode for scenarios that don't set one.
	Mode binder.Mode `toml:"mode"`

	// Parallelism bounds how many scenarios run at once. Zero or less means
	// one per CPU.
	Parallelism int `toml:"parallelism"`

	// Scenarios are glob patterns, relative to the config file, matching
	// scenario files to run when none are given.
	Scenarios []string `toml:"scenarios"`

	// Dir is the directory containing the config file.
	Dir string `toml:"-"`
}

// LoadConfig loads a binder.toml file from the given path.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	config.Dir = filepath.Dir(path)
	return &config, nil
}

// FindConfig searches for binder.toml starting from dir and walking up to
// parent directories, stopping at a .git boundary. Returns ("", nil, nil) if
// none is found.
func FindConfig(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// ApplyEnv overrides config values from BINDER_MODE and BINDER_PARALLELISM.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("BINDER_MODE"); v != "" {
		mode, err := binder.ParseMode(v)
		if err != nil {
			return errors.Wrap(err, "BINDER_MODE")
		}
		c.Mode = mode
	}
	if v := os.Getenv("BINDER_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "BINDER_PARALLELISM")
		}
		c.Parallelism = n
	}
	return nil
}

// Files expands the configured scenario globs, in pattern order.
func (c *Config) Files() ([]string, error) {
	var files []string
	seen := map[string]bool{}
	for _, pattern := range c.Scenarios {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.Dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario glob %q", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}
