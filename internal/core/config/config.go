// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// Constants for default paths
const (
	DefaultConfigDir      = ".imgquest"
	DefaultConfigFileName = "config.yaml"
	DefaultDataDir        = "~/.imgquest/projects"
	DefaultArtifactsDir   = "artifacts"
	DefaultQuestionLimit  = 1

	// HomeEnv overrides the home directory used for ~ expansion and the global config.
	HomeEnv = "IMGQUEST_HOME"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Config holds the application configuration
type Config struct {
	// CatalogPath points at a catalog file or a directory of catalog files.
	// Empty uses the embedded catalog.
	CatalogPath   string    `json:"catalog_path" yaml:"catalog_path"`
	DataDir       string    `json:"data_dir" yaml:"data_dir"`
	Storage       string    `json:"storage" yaml:"storage"`
	DefaultMode   string    `json:"default_mode" yaml:"default_mode"`
	QuestionLimit int       `json:"question_limit" yaml:"question_limit"`
	ArtifactsDir  string    `json:"artifacts_dir" yaml:"artifacts_dir"`
	Log           LogConfig `json:"log" yaml:"log"`
}

// NewDefaultConfig creates a default configuration
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:       ExpandPathWithTilde(DefaultDataDir),
		Storage:       StorageFile,
		DefaultMode:   string(models.ModeStandard),
		QuestionLimit: DefaultQuestionLimit,
		ArtifactsDir:  DefaultArtifactsDir,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ExpandPathWithTilde expands ~ to the user home directory.
// It respects IMGQUEST_HOME.
func ExpandPathWithTilde(path string) string {
	if path == "~" {
		if home := getHomeDir(); home != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home := getHomeDir(); home != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func getHomeDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// GlobalConfigFilePath returns the absolute path to the global config file.
func GlobalConfigFilePath() (string, error) {
	home := getHomeDir()
	if home == "" {
		return "", fmt.Errorf("could not determine home directory")
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFileName), nil
}

// LoadConfig starts from the defaults and merges the global config file over
// them. A missing file is not an error. configPathOverride replaces the global
// path when set.
func LoadConfig(configPathOverride string) (*Config, error) {
	config := NewDefaultConfig()

	path := ExpandPathWithTilde(configPathOverride)
	if path == "" {
		var err error
		path, err = GlobalConfigFilePath()
		if err != nil {
			return config, nil
		}
	}

	fileConfig, err := LoadConfigFile(path)
	if err != nil {
		if os.IsNotExist(err) && configPathOverride == "" {
			return config, nil
		}
		return nil, fmt.Errorf("could not load config file '%s': %w", path, err)
	}

	mergeConfigs(config, fileConfig)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", path, err)
	}
	return config, nil
}

// LoadConfigFile loads a configuration from a specific file path
func LoadConfigFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path cannot be empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return config, nil
}

// mergeConfigs merges source config into target config.
// Only non-zero values from source override target.
func mergeConfigs(target, source *Config) {
	if source.CatalogPath != "" {
		target.CatalogPath = ExpandPathWithTilde(source.CatalogPath)
	}
	if source.DataDir != "" {
		target.DataDir = ExpandPathWithTilde(source.DataDir)
	}
	if source.Storage != "" {
		target.Storage = source.Storage
	}
	if source.DefaultMode != "" {
		target.DefaultMode = source.DefaultMode
	}
	if source.QuestionLimit > 0 {
		target.QuestionLimit = source.QuestionLimit
	}
	if source.ArtifactsDir != "" {
		target.ArtifactsDir = ExpandPathWithTilde(source.ArtifactsDir)
	}
	if source.Log.Level != "" {
		target.Log.Level = source.Log.Level
	}
	if source.Log.Format != "" {
		target.Log.Format = source.Log.Format
	}
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageMemory:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageFile, StorageMemory, c.Storage)
	}
	if _, err := models.ParseMode(c.DefaultMode); err != nil {
		return err
	}
	if c.QuestionLimit < 0 {
		return fmt.Errorf("question_limit must not be negative")
	}
	return nil
}

// SaveConfig writes config to path, or to the global config path when path is empty.
func SaveConfig(config *Config, path string) error {
	if path == "" {
		var err error
		path, err = GlobalConfigFilePath()
		if err != nil {
			return fmt.Errorf("could not determine global config path for saving: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory '%s': %w", filepath.Dir(path), err)
	}

	data, err := Marshal(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file '%s': %w", path, err)
	}
	return nil
}

// Marshal encodes config as it is stored on disk.
func Marshal(config *Config) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("error marshaling config: %w", err)
	}
	return data, nil
}
