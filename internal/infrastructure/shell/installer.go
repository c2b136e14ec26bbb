// Package shell installs the zsh and bash hooks that feed finished commands
// to the suggestion engine.
package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/shai-sense/assets"
	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/pkg/filesystem"
	"github.com/doeshing/shai-sense/internal/pkg/logger"
	"github.com/doeshing/shai-sense/internal/ports"
)

const rcHeader = "# Added by shai-sense installer\n"

// Installer handles shell script deployment.
type Installer struct {
	home   string
	getenv func(string) string
	logger ports.Logger
}

// NewInstaller builds a shell installer rooted at the user's home directory.
func NewInstaller(log ports.Logger) *Installer {
	if log == nil {
		log = logger.Nop()
	}
	return &Installer{home: filesystem.UserHomeDir(), getenv: os.Getenv, logger: log}
}

// Install writes the hook script and sources it from the rc file. The shell
// is auto-detected from $SHELL when empty.
func (i *Installer) Install(shell string, force bool) (domain.ShellInstallResult, error) {
	name := i.normalizeShell(shell)
	script, err := scriptFor(name)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	scriptPath, rcFile := i.scriptPaths(name)
	if err := os.MkdirAll(filepath.Dir(scriptPath), domain.DirectoryPermissions); err != nil {
		return domain.ShellInstallResult{}, err
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return domain.ShellInstallResult{}, err
	}

	rcUpdated, err := ensureRCLine(rcFile, i.sourceLine(scriptPath), force)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	i.logger.Debug("shell hook installed", map[string]interface{}{
		"shell":      string(name),
		"rc_updated": rcUpdated,
	})

	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: true,
		RCUpdated:     rcUpdated,
	}, nil
}

// Uninstall removes the sourcing line; the script stays on disk.
func (i *Installer) Uninstall(shell string) (domain.ShellInstallResult, error) {
	name := i.normalizeShell(shell)
	if name == domain.ShellUnknown {
		return domain.ShellInstallResult{}, fmt.Errorf("unsupported shell: %s", shell)
	}
	scriptPath, rcFile := i.scriptPaths(name)
	updated, err := removeRCLine(rcFile, i.sourceLine(scriptPath))
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	return domain.ShellInstallResult{
		Shell:      name,
		ScriptPath: scriptPath,
		RCFile:     rcFile,
		RCUpdated:  updated,
	}, nil
}

// Status reports current integration state.
func (i *Installer) Status(shell string) domain.ShellStatus {
	name := i.normalizeShell(shell)
	if name == domain.ShellUnknown {
		return domain.ShellStatus{Shell: name, Error: "unsupported shell"}
	}
	scriptPath, rcFile := i.scriptPaths(name)
	status := domain.ShellStatus{Shell: name, ScriptPath: scriptPath, RCFile: rcFile}

	if info, err := os.Stat(scriptPath); err == nil && info.Mode().IsRegular() {
		status.ScriptExists = true
	}
	if contents, err := os.ReadFile(rcFile); err == nil {
		status.LinePresent = strings.Contains(string(contents), i.sourceLine(scriptPath))
	}
	return status
}

func (i *Installer) normalizeShell(shell string) domain.ShellName {
	if shell == "" {
		shell = filepath.Base(i.getenv("SHELL"))
	}
	switch strings.ToLower(shell) {
	case "zsh":
		return domain.ShellZsh
	case "bash":
		return domain.ShellBash
	default:
		return domain.ShellUnknown
	}
}

func scriptFor(shell domain.ShellName) (string, error) {
	switch shell {
	case domain.ShellZsh:
		return assets.ZshHook, nil
	case domain.ShellBash:
		return assets.BashHook, nil
	default:
		return "", errors.New("unsupported shell")
	}
}

func (i *Installer) scriptPaths(shell domain.ShellName) (string, string) {
	dir := filepath.Join(i.home, ".shai", "shell")
	switch shell {
	case domain.ShellZsh:
		return filepath.Join(dir, "zsh.sh"), filepath.Join(i.home, ".zshrc")
	default:
		return filepath.Join(dir, "bash.sh"), filepath.Join(i.home, ".bashrc")
	}
}

// sourceLine uses $HOME so the rc file stays portable.
func (i *Installer) sourceLine(scriptPath string) string {
	path := scriptPath
	if rel, err := filepath.Rel(i.home, scriptPath); err == nil && !strings.HasPrefix(rel, "..") {
		path = filepath.Join("$HOME", rel)
	}
	return fmt.Sprintf("[ -f %s ] && source %s", path, path)
}

func ensureRCLine(path string, line string, force bool) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, os.WriteFile(path, []byte(rcHeader+line+"\n"), 0o644)
	}
	if err != nil {
		return false, err
	}
	if strings.Contains(string(contents), line) && !force {
		return false, nil
	}
	kept := dropLine(string(contents), line)
	kept = append(kept, line)
	return true, os.WriteFile(path, []byte(joinLines(kept)), 0o644)
}

func removeRCLine(path string, line string) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !strings.Contains(string(contents), line) {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(joinLines(dropLine(string(contents), line))), 0o644)
}

func dropLine(contents, line string) []string {
	var kept []string
	for _, existing := range strings.Split(strings.TrimRight(contents, "\n"), "\n") {
		if strings.Contains(existing, line) {
			continue
		}
		kept = append(kept, existing)
	}
	return kept
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

var _ ports.ShellIntegrator = (*Installer)(nil)
