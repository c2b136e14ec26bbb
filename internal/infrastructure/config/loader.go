package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/shai-sense/assets"
	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/pkg/filesystem"
	"github.com/doeshing/shai-sense/internal/ports"
)

// EnvConfigPath overrides the config location.
const EnvConfigPath = "SHAI_CONFIG"

// FileLoader loads YAML configuration from ~/.shai/config.yaml (overridable via SHAI_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path uses SHAI_CONFIG or the default location.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := writeDefault(path); err != nil {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
	}

	cfg, err := Parse(data)
	if err != nil {
		return domain.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.ShaiDir(), "config.yaml")
}

// Parse decodes YAML and fills defaults.
func Parse(data []byte) (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

// Defaults returns the embedded default configuration.
func Defaults() domain.Config {
	cfg, err := Parse(assets.DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded config is invalid: %v", err))
	}
	return cfg
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filesystem.ShaiDir(), "history.db")
	}
	cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(filesystem.ShaiDir(), "cache", "replies")
	}
	cfg.Cache.Dir = filesystem.ExpandPath(cfg.Cache.Dir)
	cfg.Redaction.RulesFile = filesystem.ExpandPath(cfg.Redaction.RulesFile)
	cfg.Guardrail.RulesFile = filesystem.ExpandPath(cfg.Guardrail.RulesFile)
	cfg.Intelligence.DictionaryFile = filesystem.ExpandPath(cfg.Intelligence.DictionaryFile)
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
