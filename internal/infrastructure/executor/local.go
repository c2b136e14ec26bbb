package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	shell  string
	stdout io.Writer
	stderr io.Writer
}

// NewLocalExecutor builds a new executor; shell defaults to sh. Output is
// captured and, when the writers are non-nil, also streamed to them.
func NewLocalExecutor(shell string, stdout, stderr io.Writer) *LocalExecutor {
	if shell == "" {
		shell = "sh"
	}
	return &LocalExecutor{shell: shell, stdout: stdout, stderr: stderr}
}

// Execute implements ports.CommandExecutor. A non-zero exit is reported in
// the result, not as an error; errors mean the command could not run.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionResult, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", command)
	var stdout, stderr bytes.Buffer
	c.Stdout = tee(&stdout, e.stdout)
	c.Stderr = tee(&stderr, e.stderr)

	start := time.Now()
	err := c.Run()
	result := domain.ExecutionResult{
		Ran:        c.ProcessState != nil,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		result.Err = err
		return result, nil
	default:
		result.ExitCode = -1
		result.Err = err
		return result, err
	}
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
