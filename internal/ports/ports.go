// Package ports defines the interfaces (ports) between the suggestion engine
// and its adapters.
//
// The engine packages under internal/intel depend only on domain types. The
// application session and the CLI talk to the outside world (AI providers,
// secret redaction, persisted history, the shell) exclusively through the
// interfaces declared here, so every adapter can be swapped or stubbed.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.shai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ChatClient sends one system/user prompt pair to an AI provider. Calls may
// block for a long time and must honour ctx cancellation.
type ChatClient interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (ChatResponse, error)
}

// ChatResponse is the provider's reply.
type ChatResponse struct {
	Content string
}

// ChatClientFactory builds chat clients from model definitions.
type ChatClientFactory interface {
	ForModel(domain.ModelDefinition) (ChatClient, error)
}

// Redactor scrubs secrets from free-form text before it leaves the machine.
type Redactor interface {
	Redact(text string) string
}

// CommandGuard grades commands before they are executed or shown.
type CommandGuard interface {
	Evaluate(command string) domain.RiskAssessment
}

// HistoryRepository persists executed commands across sessions.
type HistoryRepository interface {
	Save(entry domain.HistoryEntry) error
	Records(limit int, search string) ([]domain.HistoryEntry, error)
	Prune(olderThan time.Time) (int64, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// StateCollector captures the terminal state after a command finishes.
type StateCollector interface {
	Collect(ctx context.Context, dir string) (domain.TerminalState, error)
}

// CommandExecutor runs shell commands in the configured shell environment.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// ShellIntegrator installs the hook that reports each finished command.
type ShellIntegrator interface {
	Install(shell string, force bool) (domain.ShellInstallResult, error)
	Uninstall(shell string) (domain.ShellInstallResult, error)
	Status(shell string) domain.ShellStatus
}

// SnapshotStore keeps the last terminal state of a shell between hook
// invocations.
type SnapshotStore interface {
	Load(session string) (domain.TerminalState, bool, error)
	Save(session string, state domain.TerminalState) error
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
