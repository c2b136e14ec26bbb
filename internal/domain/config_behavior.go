package domain

import (
	"fmt"
	"time"
)

// GetDefaultModel retrieves the default model definition from configuration.
// Returns an error if the default model is not found.
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name.
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// IsAIEnabled reports whether AI-augmented recommendations may be requested.
func (c *Config) IsAIEnabled() bool {
	return c.Preferences.EnableAI && len(c.Models) > 0
}

// IsRedactionEnabled reports whether text is scrubbed before leaving the machine.
func (c *Config) IsRedactionEnabled() bool {
	return c.Redaction.Enabled
}

// IsGuardrailEnabled reports whether run checks commands against guardrail rules.
func (c *Config) IsGuardrailEnabled() bool {
	return c.Guardrail.Enabled
}

// IsCacheEnabled reports whether AI replies are cached on disk.
func (c *Config) IsCacheEnabled() bool {
	return c.Cache.Enabled
}

// GetCacheTTL parses the reply cache TTL. Empty or invalid values fall back
// to the default.
func (c *Config) GetCacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.Cache.TTL); err == nil && d >= 0 {
		return d
	}
	return DefaultCacheTTL
}

// GetCacheMaxEntries returns the reply cache size limit.
func (c *Config) GetCacheMaxEntries() int {
	if c.Cache.MaxEntries <= 0 {
		return DefaultCacheMaxEntries
	}
	return c.Cache.MaxEntries
}

// GetExecutionShell returns the configured shell for command execution.
// Returns the default shell if not configured.
func (c *Config) GetExecutionShell() string {
	const defaultShell = "sh"

	if c.Execution.Shell == "" || c.Execution.Shell == "auto" {
		return defaultShell
	}
	return c.Execution.Shell
}

// GetMaxSuggestions returns the ranked suggestion limit. An explicit zero is
// honoured; unset or negative values fall back to the default.
func (c *Config) GetMaxSuggestions() int {
	if c.Intelligence.MaxSuggestions == nil || *c.Intelligence.MaxSuggestions < 0 {
		return DefaultMaxSuggestions
	}
	return *c.Intelligence.MaxSuggestions
}

// GetMaxHistoryEntries returns the in-memory history capacity.
func (c *Config) GetMaxHistoryEntries() int {
	if c.Intelligence.MaxHistoryEntries <= 0 {
		return DefaultMaxHistoryEntries
	}
	return c.Intelligence.MaxHistoryEntries
}

// GetSlowCommandThresholdMS returns the slow-command threshold.
func (c *Config) GetSlowCommandThresholdMS() int64 {
	if c.Intelligence.SlowCommandThresholdMS <= 0 {
		return DefaultSlowCommandThresholdMS
	}
	return c.Intelligence.SlowCommandThresholdMS
}

// GetIdleThresholdMS returns the idle threshold.
func (c *Config) GetIdleThresholdMS() int64 {
	if c.Intelligence.IdleThresholdMS <= 0 {
		return DefaultIdleThresholdMS
	}
	return c.Intelligence.IdleThresholdMS
}

// GetHistoryRetentionDays returns the number of days to retain history
func (c *Config) GetHistoryRetentionDays() int {
	if c.History.RetentionDays <= 0 {
		return DefaultHistoryRetainDays
	}
	return c.History.RetentionDays
}

// GetTimeoutSeconds returns the provider request timeout in seconds
func (c *Config) GetTimeoutSeconds() int {
	const defaultTimeoutSeconds = 30

	if c.Preferences.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds
	}
	return c.Preferences.TimeoutSeconds
}

// ValidateConsistency checks the internal consistency of the configuration.
func (c *Config) ValidateConsistency() error {
	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s does not exist in models list", c.Preferences.DefaultModel)
	}
	if _, err := c.Intelligence.TriggerMask(); err != nil {
		return fmt.Errorf("intelligence.enabled_triggers: %w", err)
	}
	return nil
}
