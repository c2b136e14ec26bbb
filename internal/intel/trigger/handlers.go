package trigger

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/intel/analyzer"
)

const (
	staticFixConfidence = 0.85
	hintConfidence      = 0.6
	tipConfidence       = 0.5
)

type failureFix struct {
	pattern  *regexp.Regexp
	template string
	reason   string
}

// failureFixes maps error text to a corrected command. Templates accept
// regexp submatches ($1) and the placeholders {command}, {branch}, {dir}.
var failureFixes = []failureFix{
	{
		pattern:  regexp.MustCompile(`(?i)has no upstream branch`),
		template: "git push --set-upstream origin {branch}",
		reason:   "Set the upstream branch and push",
	},
	{
		pattern:  regexp.MustCompile(`(?i)not a git repository`),
		template: "git init",
		reason:   "Initialise a repository here",
	},
	{
		pattern:  regexp.MustCompile(`(?i)local changes to the following files would be overwritten`),
		template: "git stash && {command} && git stash pop",
		reason:   "Stash local changes around the command",
	},
	{
		pattern:  regexp.MustCompile(`(?i)pathspec '([^']+)' did not match`),
		template: "git branch -a | grep $1",
		reason:   "Look for a similarly named branch",
	},
	{
		pattern:  regexp.MustCompile(`(?i)cannot connect to the docker daemon`),
		template: "sudo systemctl start docker",
		reason:   "Start the Docker daemon",
	},
	{
		pattern:  regexp.MustCompile(`(?i)permission denied`),
		template: "sudo {command}",
		reason:   "Retry with elevated privileges",
	},
	{
		pattern:  regexp.MustCompile(`(?i)no module named '?([A-Za-z0-9_.\-]+)'?`),
		template: "pip install $1",
		reason:   "Install the missing Python module",
	},
	{
		pattern:  regexp.MustCompile(`(?i)cannot find module '([^'./][^']*)'`),
		template: "npm install $1",
		reason:   "Install the missing Node module",
	},
	{
		pattern:  regexp.MustCompile(`(?i)address already in use`),
		template: "lsof -i -P -n | grep LISTEN",
		reason:   "Find the process holding the port",
	},
	{
		pattern:  regexp.MustCompile(`(?i)no such file or directory`),
		template: "ls -la {dir}",
		reason:   "Check what exists in this directory",
	},
}

func commandFailed(next domain.TerminalState, _ []string) *domain.Suggestion {
	text := next.ErrorOutput
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, fix := range failureFixes {
		idx := fix.pattern.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}
		cmd := string(fix.pattern.ExpandString(nil, fix.template, text, idx))
		cmd, ok := fillPlaceholders(cmd, next)
		if !ok {
			continue
		}
		s := domain.NewSuggestion(domain.SuggestionCorrection, cmd, staticFixConfidence, fix.reason, domain.SourceTrigger)
		return &s
	}
	return nil
}

// fillPlaceholders reports false when a placeholder has no value.
func fillPlaceholders(tmpl string, snap domain.TerminalState) (string, bool) {
	branch := ""
	if snap.GitBranch != nil {
		branch = *snap.GitBranch
	}
	values := [...][2]string{
		{"{command}", strings.TrimSpace(snap.LastCommand)},
		{"{branch}", branch},
		{"{dir}", snap.CurrentDir},
	}
	for _, kv := range values {
		if !strings.Contains(tmpl, kv[0]) {
			continue
		}
		if kv[1] == "" {
			return "", false
		}
		tmpl = strings.ReplaceAll(tmpl, kv[0], kv[1])
	}
	return tmpl, true
}

func commandSlow(next domain.TerminalState, _ []string) *domain.Suggestion {
	seconds := float64(*next.DurationMS) / 1000
	text := fmt.Sprintf("That took %.1fs. Long-running commands can be sent to the background with '&' or kept alive with nohup.", seconds)
	s := domain.NewSuggestion(domain.SuggestionTip, text, tipConfidence, "Command was slow", domain.SourceTrigger)
	return &s
}

// errorOutput reuses the error-recovery table for commands that succeeded
// but still wrote errors.
func errorOutput(next domain.TerminalState, _ []string) *domain.Suggestion {
	found := analyzer.ErrorRecovery(analyzer.Input{Context: analyzer.Context{RecentError: next.ErrorOutput}})
	if len(found) == 0 {
		return nil
	}
	return &found[0]
}

func gitStatusChanged(next domain.TerminalState, _ []string) *domain.Suggestion {
	reason := fmt.Sprintf("Now on branch %s", *next.GitBranch)
	cmd := "git log --oneline -5"
	if next.GitStatus != nil && strings.TrimSpace(*next.GitStatus) != "" {
		cmd = "git status"
	}
	s := domain.NewSuggestion(domain.SuggestionRunCommand, cmd, hintConfidence, reason, domain.SourceTrigger)
	return &s
}

func directoryChanged(next domain.TerminalState, _ []string) *domain.Suggestion {
	s := domain.NewSuggestion(domain.SuggestionRunCommand, "ls", tipConfidence, "Entered "+filepath.Base(next.CurrentDir), domain.SourceTrigger)
	return &s
}

func patternDetected(_ domain.TerminalState, recent []string) *domain.Suggestion {
	sig, ok := matchSignature(recent)
	if !ok {
		return nil
	}
	s := domain.NewSuggestion(domain.SuggestionRunCommand, sig.next, hintConfidence, sig.reason, domain.SourceTrigger)
	return &s
}

func idleSuggestion(prev domain.TerminalState) *domain.Suggestion {
	if prev.GitBranch != nil {
		s := domain.NewSuggestion(domain.SuggestionRunCommand, "git status", tipConfidence, "Welcome back; see where you left off", domain.SourceTrigger)
		return &s
	}
	if prev.LastCommand == "" {
		return nil
	}
	text := fmt.Sprintf("Welcome back. Your last command was %q.", prev.LastCommand)
	s := domain.NewSuggestion(domain.SuggestionTip, text, tipConfidence, "Idle for a while", domain.SourceTrigger)
	return &s
}

// projectFiles maps well-known files to the command that usually follows
// their creation.
var projectFiles = map[string]struct{ command, reason string }{
	"go.mod":             {"go mod tidy", "New Go module"},
	"package.json":       {"npm install", "New Node project"},
	"requirements.txt":   {"pip install -r requirements.txt", "New Python requirements"},
	"Cargo.toml":         {"cargo build", "New Rust crate"},
	"Dockerfile":         {"docker build -t app .", "New Dockerfile"},
	"Makefile":           {"make", "New Makefile"},
	"docker-compose.yml": {"docker compose up -d", "New compose file"},
	".gitignore":         {"git status", "New .gitignore"},
}

func fileCreatedSuggestion(path string) *domain.Suggestion {
	entry, ok := projectFiles[filepath.Base(path)]
	if !ok {
		return nil
	}
	s := domain.NewSuggestion(domain.SuggestionRunCommand, entry.command, hintConfidence, entry.reason, domain.SourceTrigger)
	return &s
}
