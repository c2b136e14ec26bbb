package commands

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrQueryRequired            = "search query required"
	ErrInvalidRetainDays        = "--days must be > 0"
	ErrBlockedByGuardrail       = "command blocked by guardrail"
	ErrCacheDisabled            = "reply cache disabled"
)

// Informational messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoSuggestions            = "No suggestions."
	MsgNoCorrection             = "No correction found."
)

// Defaults for flags
const (
	DefaultHistoryLimit       = 20
	DefaultHistorySearchLimit = 50
	DefaultIdleCheckInterval  = 30
	maxErrorContextLen        = 4096
)
