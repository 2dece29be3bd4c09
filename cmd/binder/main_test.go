package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/binder/pkg/binder"
	"github.com/vito/binder/pkg/ioctx"
	"github.com/vito/binder/pkg/notation"
	"github.com/vito/binder/pkg/scenario"
)

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, scenario.ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("mode = \"omitted-or-nullish\"\nparallelism = 3\n"), 0644))

	t.Setenv("BINDER_MODE", "")
	t.Setenv("BINDER_PARALLELISM", "")

	config, err := loadConfig(Config{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, binder.OmittedOrNullish, config.Mode)
	assert.Equal(t, 3, config.Parallelism)

	config, err = loadConfig(Config{ConfigFile: path, Mode: "omitted-only"})
	require.NoError(t, err)
	assert.Equal(t, binder.OmittedOnly, config.Mode)

	_, err = loadConfig(Config{ConfigFile: path, Mode: "never"})
	assert.ErrorContains(t, err, `unknown binding mode "never"`)
}

func TestEvalCommand(t *testing.T) {
	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	cfg := &Config{ConfigFile: writeEmptyConfig(t)}
	cmd := evalCmd(cfg)
	cmd.SetArgs([]string{
		"let colors = ['red', 'orange', 'yellow', 'green']",
		"let [first, ...rest] = colors",
	})
	require.NoError(t, cmd.ExecuteContext(ctx))

	assert.Equal(t, `colors = ["red", "orange", "yellow", "green"]
first = "red"
rest = ["orange", "yellow", "green"]
`, out.String())
}

func TestBindCommand(t *testing.T) {
	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	cfg := &Config{ConfigFile: writeEmptyConfig(t), Mode: "omitted-or-nullish"}
	cmd := bindCmd(cfg)
	cmd.SetArgs([]string{"[x, y = 2]", "[1, null]"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	assert.Equal(t, "x = 1\ny = 2\n", out.String())
}

func TestRunCommandFailsOnFailedScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "podium.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[[scenario]]
name = "podium"
steps = ["let [gold, silver] = ['Eliud', 'Feyisa']"]
expect = ['gold = "Eliud"; silver = "Feyisa"']

[[scenario]]
name = "wrong sum"
steps = ["sum(1, 2)"]
expect = ["4"]
`), 0644))

	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	cfg := &Config{ConfigFile: writeEmptyConfig(t)}
	cmd := runCmd(cfg)
	cmd.SetArgs([]string{"--parallel", "1", path})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(ctx)
	assert.EqualError(t, err, "1 scenario(s) failed")
	assert.Contains(t, out.String(), "podium")
	assert.Contains(t, out.String(), "wrong sum")
	assert.Contains(t, out.String(), "1 passed, 1 failed")
}

func TestRunCommandPasses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spread.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`scenario:
  - name: spread
    steps:
      - "[...'abc']"
    expect:
      - '["a", "b", "c"]'
`), 0644))

	var out bytes.Buffer
	ctx := ioctx.StdoutToContext(context.Background(), &out)

	cmd := runCmd(&Config{ConfigFile: writeEmptyConfig(t)})
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "1 passed, 0 failed")
}

func TestFormatError(t *testing.T) {
	_, err := notation.ParsePattern("[a, b")
	require.Error(t, err)
	assert.Contains(t, formatError(err), "[a, b")

	assert.Contains(t, formatError(binder.ErrUnbound), "unbound name")
}

func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("BINDER_MODE", "")
	t.Setenv("BINDER_PARALLELISM", "")
	path := filepath.Join(t.TempDir(), scenario.ConfigFile)
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}
