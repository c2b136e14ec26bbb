package contextcollector

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// runFunc runs a helper command and returns its trimmed stdout.
type runFunc func(ctx context.Context, dir, name string, args ...string) (string, error)

// StateCollector implements ports.StateCollector using the working
// directory and git.
type StateCollector struct {
	run runFunc
	now func() time.Time
}

// NewStateCollector builds a collector that shells out to git.
func NewStateCollector() *StateCollector {
	return &StateCollector{run: runCmd, now: time.Now}
}

// Collect captures the directory and git state of dir (the process working
// directory when empty). Command fields are left for the caller to fill.
// Git fields stay nil outside a repository.
func (c *StateCollector) Collect(ctx context.Context, dir string) (domain.TerminalState, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return domain.TerminalState{}, err
		}
		dir = wd
	}

	state := domain.TerminalState{CurrentDir: dir, Timestamp: c.now()}
	branch, err := c.run(ctx, dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil || branch == "" {
		return state, nil
	}
	state.GitBranch = &branch
	if status, err := c.run(ctx, dir, "git", "status", "--short"); err == nil {
		state.GitStatus = &status
	}
	return state, nil
}

func runCmd(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, domain.DefaultCommandTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

var _ ports.StateCollector = (*StateCollector)(nil)
