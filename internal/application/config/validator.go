package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if cfg.IsAIEnabled() {
		if _, err := cfg.GetDefaultModel(); err != nil {
			return err
		}
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	for _, model := range cfg.Models {
		if err := validateModel(model); err != nil {
			return err
		}
	}
	if err := validateIntelligence(cfg.Intelligence); err != nil {
		return err
	}
	if cfg.History.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must be >= 0")
	}
	if cfg.Cache.TTL != "" {
		if d, err := time.ParseDuration(cfg.Cache.TTL); err != nil || d < 0 {
			return fmt.Errorf("cache.ttl must be a non-negative duration, got %q", cfg.Cache.TTL)
		}
	}
	if cfg.Preferences.TimeoutSeconds < 0 {
		return fmt.Errorf("preferences.timeout must be >= 0")
	}
	return nil
}

func validateModel(model domain.ModelDefinition) error {
	if strings.TrimSpace(model.Name) == "" {
		return errors.New("models: every model needs a name")
	}
	if strings.TrimSpace(model.Endpoint) == "" {
		return fmt.Errorf("model %s: endpoint must be set", model.Name)
	}
	switch model.APIFormat.GetSystemMessageMode() {
	case domain.SystemMessageModeInline, domain.SystemMessageModeSeparate:
	default:
		return fmt.Errorf("model %s: system_message_mode must be inline|separate, got %s", model.Name, model.APIFormat.SystemMessageMode)
	}
	switch model.APIFormat.GetContentWrapper() {
	case domain.ContentWrapperStandard, domain.ContentWrapperAnthropic:
	default:
		return fmt.Errorf("model %s: content_wrapper must be standard|anthropic, got %s", model.Name, model.APIFormat.ContentWrapper)
	}
	return nil
}

func validateIntelligence(s domain.IntelligenceSettings) error {
	if s.MaxSuggestions != nil && *s.MaxSuggestions < 0 {
		return fmt.Errorf("intelligence.max_suggestions must be >= 0")
	}
	if s.IdleThresholdMS < 0 {
		return fmt.Errorf("intelligence.idle_threshold_ms must be >= 0")
	}
	if s.SlowCommandThresholdMS < 0 {
		return fmt.Errorf("intelligence.slow_command_threshold_ms must be >= 0")
	}
	if s.MaxHistoryEntries < 0 {
		return fmt.Errorf("intelligence.max_history_entries must be >= 0")
	}
	return nil
}
