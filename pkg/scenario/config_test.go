package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/binder/pkg/binder"
)

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Run("not found stops at .git", func(t *testing.T) {
		path, config, err := FindConfig(nested)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Nil(t, config)
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(`
mode = "omitted-or-nullish"
parallelism = 2
scenarios = ["scenarios/*.toml", "scenarios/*.yaml"]
`), 0644))

	t.Run("found in a parent", func(t *testing.T) {
		path, config, err := FindConfig(nested)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, ConfigFile), path)
		assert.Equal(t, binder.OmittedOrNullish, config.Mode)
		assert.Equal(t, 2, config.Parallelism)
		assert.Equal(t, root, config.Dir)
	})

	t.Run("invalid mode", func(t *testing.T) {
		bad := filepath.Join(nested, ConfigFile)
		require.NoError(t, os.WriteFile(bad, []byte(`mode = "eventually"`), 0644))
		defer os.Remove(bad)

		_, _, err := FindConfig(nested)
		assert.ErrorContains(t, err, "parsing "+bad)
	})
}

func TestConfigFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "scenarios"), 0755))
	for _, name := range []string{"b.toml", "a.toml", "c.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "scenarios", name), nil, 0644))
	}

	config := &Config{
		Dir:       root,
		Scenarios: []string{"scenarios/*.toml", "scenarios/*.yaml", "scenarios/a.toml"},
	}
	files, err := config.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "scenarios", "a.toml"),
		filepath.Join(root, "scenarios", "b.toml"),
		filepath.Join(root, "scenarios", "c.yaml"),
	}, files)
}

func TestConfigApplyEnv(t *testing.T) {
	originalMode := os.Getenv("BINDER_MODE")
	originalParallelism := os.Getenv("BINDER_PARALLELISM")

	defer func() {
		os.Setenv("BINDER_MODE", originalMode)
		os.Setenv("BINDER_PARALLELISM", originalParallelism)
	}()

	t.Run("no overrides", func(t *testing.T) {
		os.Unsetenv("BINDER_MODE")
		os.Unsetenv("BINDER_PARALLELISM")

		config := &Config{Mode: binder.OmittedOrNullish, Parallelism: 4}
		require.NoError(t, config.ApplyEnv())

		assert.Equal(t, binder.OmittedOrNullish, config.Mode)
		assert.Equal(t, 4, config.Parallelism)
	})

	t.Run("overrides from env vars", func(t *testing.T) {
		os.Setenv("BINDER_MODE", "omitted-only")
		os.Setenv("BINDER_PARALLELISM", "8")

		config := &Config{Mode: binder.OmittedOrNullish, Parallelism: 4}
		require.NoError(t, config.ApplyEnv())

		assert.Equal(t, binder.OmittedOnly, config.Mode)
		assert.Equal(t, 8, config.Parallelism)
	})

	t.Run("invalid values", func(t *testing.T) {
		os.Setenv("BINDER_MODE", "whenever")
		os.Unsetenv("BINDER_PARALLELISM")
		assert.ErrorContains(t, (&Config{}).ApplyEnv(), "BINDER_MODE")

		os.Unsetenv("BINDER_MODE")
		os.Setenv("BINDER_PARALLELISM", "lots")
		assert.ErrorContains(t, (&Config{}).ApplyEnv(), "BINDER_PARALLELISM")
	})
}
