package domain

// Config mirrors ~/.shai/config.yaml.
type Config struct {
	ConfigFormatVersion string               `yaml:"config_format_version"`
	Preferences         Preferences          `yaml:"preferences"`
	Models              []ModelDefinition    `yaml:"models"`
	Intelligence        IntelligenceSettings `yaml:"intelligence"`
	Redaction           RedactionSettings    `yaml:"redaction"`
	Guardrail           GuardrailSettings    `yaml:"guardrail"`
	Cache               CacheSettings        `yaml:"cache"`
	History             HistorySettings      `yaml:"history"`
	Execution           ExecutionSettings    `yaml:"execution"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	EnableAI       bool   `yaml:"enable_ai"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// IntelligenceSettings configures the suggestion engine.
type IntelligenceSettings struct {
	MaxSuggestions         *int     `yaml:"max_suggestions,omitempty"`
	IdleThresholdMS        int64    `yaml:"idle_threshold_ms"`
	SlowCommandThresholdMS int64    `yaml:"slow_command_threshold_ms"`
	MaxHistoryEntries      int      `yaml:"max_history_entries"`
	EnabledTriggers        []string `yaml:"enabled_triggers"`
	DictionaryFile         string   `yaml:"dictionary_file,omitempty"`
}

// TriggerMask resolves EnabledTriggers into a bitmask.
func (s IntelligenceSettings) TriggerMask() (TriggerMask, error) {
	return MaskFromNames(s.EnabledTriggers)
}

// RedactionSettings controls secret scrubbing before text leaves the machine.
type RedactionSettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// GuardrailSettings controls the dangerous-command check used by run.
type GuardrailSettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// CacheSettings controls the on-disk AI reply cache.
type CacheSettings struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"`
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
}

// HistorySettings configures the persisted command journal.
type HistorySettings struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell string `yaml:"shell"`
}
