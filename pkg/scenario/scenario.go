// Package scenario loads, runs and reports files of binding scenarios: named
// lists of notation statements with optional expected output.
package scenario

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vito/binder/pkg/binder"
)

// ErrorPrefix marks an expectation that the step fails with an error
// containing the rest of the string.
const ErrorPrefix = "error:"

// File is a parsed scenario file.
type File struct {
	Path      string     `toml:"-" yaml:"-"`
	Scenarios []Scenario `toml:"scenario" yaml:"scenario"`
}

// Scenario is a named list of statements run in a fresh session.
type Scenario struct {
	Name string `toml:"name" yaml:"name"`

	// Mode overrides the runner's default binding mode.
	Mode *binder.Mode `toml:"mode" yaml:"mode"`

	// Inputs are bound in the session before the first step. Tables and
	// arrays become records and lists; record keys are sorted.
	Inputs map[string]any `toml:"inputs" yaml:"inputs"`

	Steps []string `toml:"steps" yaml:"steps"`

	// Expect holds, per step, the rendered output lines joined by "; ", or
	// ErrorPrefix followed by a substring of the expected error. An empty
	// or missing entry leaves the step unchecked.
	Expect []string `toml:"expect" yaml:"expect"`
}

// Expectation returns the expected output of step i, if any.
func (s Scenario) Expectation(i int) (string, bool) {
	if i >= len(s.Expect) || s.Expect[i] == "" {
		return "", false
	}
	return s.Expect[i], true
}

// Load reads a scenario file. Files ending in .yaml or .yml are decoded as
// YAML; anything else as TOML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scenario file")
	}

	file := &File{Path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, file)
	default:
		err = toml.Unmarshal(data, file)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	for i, sc := range file.Scenarios {
		if sc.Name == "" {
			return nil, errors.Errorf("%s: scenario %d has no name", path, i+1)
		}
		if len(sc.Expect) > len(sc.Steps) {
			return nil, errors.Errorf("%s: scenario %q has %d expectations for %d steps",
				path, sc.Name, len(sc.Expect), len(sc.Steps))
		}
	}
	return file, nil
}

// LoadAll loads every path in order.
func LoadAll(paths []string) ([]*File, error) {
	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		file, err := Load(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
