// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewDefaultConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	cfg := NewDefaultConfig()
	assert.Equal(t, filepath.Join(home, ".imgquest", "projects"), cfg.DataDir)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "EXPERT", cfg.DefaultMode)
	assert.Equal(t, 1, cfg.QuestionLimit)
	assert.Empty(t, cfg.CatalogPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("MissingGlobalFileUsesDefaults", func(t *testing.T) {
		t.Setenv(HomeEnv, t.TempDir())

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, NewDefaultConfig(), cfg)
	})

	t.Run("GlobalFileMergesOverDefaults", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(HomeEnv, home)
		writeConfig(t, filepath.Join(home, DefaultConfigDir, DefaultConfigFileName), `
catalog_path: ~/catalogs/fi.yml
storage: memory
default_mode: BEGINNER
question_limit: 3
log:
  level: debug
`)

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "catalogs", "fi.yml"), cfg.CatalogPath)
		assert.Equal(t, StorageMemory, cfg.Storage)
		assert.Equal(t, "BEGINNER", cfg.DefaultMode)
		assert.Equal(t, 3, cfg.QuestionLimit)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("OverridePathMustExist", func(t *testing.T) {
		t.Setenv(HomeEnv, t.TempDir())

		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("InvalidValuesRejected", func(t *testing.T) {
		t.Setenv(HomeEnv, t.TempDir())
		path := filepath.Join(t.TempDir(), "bad.yaml")
		writeConfig(t, path, "storage: postgres\n")

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage")
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	cfg := NewDefaultConfig()
	cfg.DefaultMode = "BEGINNER"
	require.NoError(t, SaveConfig(cfg, ""))

	path, err := GlobalConfigFilePath()
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandPathWithTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	assert.Equal(t, home, ExpandPathWithTilde("~"))
	assert.Equal(t, filepath.Join(home, "x"), ExpandPathWithTilde("~/x"))
	assert.Equal(t, "/abs/path", ExpandPathWithTilde("/abs/path"))
}
