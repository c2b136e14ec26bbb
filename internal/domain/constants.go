package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout is the default timeout for helper commands (git, etc.)
	DefaultCommandTimeout = 2 * time.Second
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultAIWait bounds how long the CLI waits for an AI recommendation
	DefaultAIWait = 20 * time.Second
)

// Engine defaults
const (
	// DefaultMaxSuggestions is the number of ranked suggestions returned
	DefaultMaxSuggestions = 5
	// DefaultIdleThresholdMS is the idle time before idle_timeout fires
	DefaultIdleThresholdMS = 5 * 60 * 1000
	// DefaultSlowCommandThresholdMS is the duration above which a command is slow
	DefaultSlowCommandThresholdMS = 10 * 1000
	// DefaultMaxHistoryEntries bounds the in-memory history store
	DefaultMaxHistoryEntries = 1000
	// RecentCommandsCapacity bounds the rolling list of raw command strings
	RecentCommandsCapacity = 100
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 30
)

// Reply cache constants
const (
	// DefaultCacheTTL is how long a cached AI reply stays valid
	DefaultCacheTTL = 24 * time.Hour
	// DefaultCacheMaxEntries bounds the number of cached replies
	DefaultCacheMaxEntries = 200
)

// Model configuration constants
const (
	// DefaultMaxTokens is the default maximum number of tokens
	DefaultMaxTokens = 1024
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
