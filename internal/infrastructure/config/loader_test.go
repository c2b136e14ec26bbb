package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shai-sense/internal/domain"
)

func TestLoad_WritesDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, 5, cfg.GetMaxSuggestions())
	assert.Equal(t, "claude-sonnet", cfg.Preferences.DefaultModel)
	assert.True(t, cfg.IsRedactionEnabled())
	mask, err := cfg.Intelligence.TriggerMask()
	require.NoError(t, err)
	assert.Equal(t, domain.AllTriggersEnabled, mask)
	assert.True(t, filepath.IsAbs(cfg.History.Path))
	require.NoError(t, cfg.ValidateConsistency())
}

func TestLoad_ReadsUserFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
models:
  - name: local
    endpoint: http://localhost:11434/v1/chat/completions
intelligence:
  max_suggestions: 0
  slow_command_threshold_ms: 2500
  enabled_triggers: [command_failed, idle_timeout]
  dictionary_file: ~/.shai/commands.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Preferences.DefaultModel)
	assert.Equal(t, 0, cfg.GetMaxSuggestions())
	assert.Equal(t, int64(2500), cfg.GetSlowCommandThresholdMS())
	assert.Equal(t, filepath.Join(home, ".shai", "commands.yaml"), cfg.Intelligence.DictionaryFile)
	assert.Equal(t, filepath.Join(home, ".shai", "history.db"), cfg.History.Path)

	mask, err := cfg.Intelligence.TriggerMask()
	require.NoError(t, err)
	assert.True(t, mask.Enabled(domain.TriggerIdleTimeout))
	assert.False(t, mask.Enabled(domain.TriggerCommandSlow))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models: ["), 0o600))

	_, err := NewFileLoader(path).Load(context.Background())
	assert.Error(t, err)
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/shai/custom.yaml")
	assert.Equal(t, "/etc/shai/custom.yaml", NewFileLoader("").Path())
	assert.Equal(t, "/tmp/x.yaml", NewFileLoader("/tmp/x.yaml").Path())
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Len(t, cfg.Models, 3)
	assert.Equal(t, "auto", cfg.Execution.Shell)
	assert.Equal(t, "sh", cfg.GetExecutionShell())
}
