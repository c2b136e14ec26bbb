package domain

import "time"

// HistoryEntry records one executed command. It is created when the command
// starts and completed once when it finishes.
type HistoryEntry struct {
	ID           uint64    `json:"id"`
	Command      string    `json:"command"`
	Timestamp    time.Time `json:"timestamp"`
	WorkingDir   string    `json:"working_dir"`
	ExitCode     *int      `json:"exit_code,omitempty"`
	DurationMS   *int64    `json:"duration_ms,omitempty"`
	ErrorContext string    `json:"error_context,omitempty"`
}

// Completed reports whether the exit code has been filled in.
func (e HistoryEntry) Completed() bool {
	return e.ExitCode != nil
}

// Succeeded reports a completed, zero-exit entry.
func (e HistoryEntry) Succeeded() bool {
	return e.ExitCode != nil && *e.ExitCode == 0
}
