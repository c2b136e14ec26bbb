package domain

import "time"

// TerminalState is a point-in-time snapshot of the terminal used to detect
// triggers. Optional fields are pointers; a nil field never matches a rule.
type TerminalState struct {
	LastCommand string    `json:"last_command,omitempty"`
	ExitCode    *int      `json:"exit_code,omitempty"`
	DurationMS  *int64    `json:"duration_ms,omitempty"`
	CurrentDir  string    `json:"current_dir,omitempty"`
	GitBranch   *string   `json:"git_branch,omitempty"`
	GitStatus   *string   `json:"git_status,omitempty"`
	ErrorOutput string    `json:"error_output,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Failed reports a non-zero exit code.
func (s TerminalState) Failed() bool {
	return s.ExitCode != nil && *s.ExitCode != 0
}

// IntPtr is a small helper for building optional fields.
func IntPtr(v int) *int { return &v }

// Int64Ptr is a small helper for building optional fields.
func Int64Ptr(v int64) *int64 { return &v }

// StringPtr is a small helper for building optional fields.
func StringPtr(v string) *string { return &v }
