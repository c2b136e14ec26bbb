package trigger

import (
	"strings"

	"github.com/doeshing/shai-sense/internal/domain"
)

type rule struct {
	trigger domain.Trigger
	match   func(d *Detector, next domain.TerminalState, recent []string) bool
	handle  func(next domain.TerminalState, recent []string) *domain.Suggestion
}

// rules is evaluated in priority order; the first match is the only trigger.
var rules = []rule{
	{
		trigger: domain.TriggerCommandFailed,
		match: func(_ *Detector, next domain.TerminalState, _ []string) bool {
			return next.Failed()
		},
		handle: commandFailed,
	},
	{
		trigger: domain.TriggerCommandSlow,
		match: func(d *Detector, next domain.TerminalState, _ []string) bool {
			return next.DurationMS != nil && *next.DurationMS > d.opts.SlowThresholdMS
		},
		handle: commandSlow,
	},
	{
		trigger: domain.TriggerErrorOutput,
		match: func(_ *Detector, next domain.TerminalState, _ []string) bool {
			return strings.TrimSpace(next.ErrorOutput) != ""
		},
		handle: errorOutput,
	},
	{
		trigger: domain.TriggerGitStatusChanged,
		match: func(d *Detector, next domain.TerminalState, _ []string) bool {
			prev := d.previous
			if prev == nil || next.GitBranch == nil {
				return false
			}
			return prev.GitBranch == nil || *prev.GitBranch != *next.GitBranch
		},
		handle: gitStatusChanged,
	},
	{
		trigger: domain.TriggerDirectoryChanged,
		match: func(d *Detector, next domain.TerminalState, _ []string) bool {
			prev := d.previous
			return prev != nil && next.CurrentDir != "" && prev.CurrentDir != next.CurrentDir
		},
		handle: directoryChanged,
	},
	{
		trigger: domain.TriggerPatternDetected,
		match: func(_ *Detector, _ domain.TerminalState, recent []string) bool {
			_, ok := matchSignature(recent)
			return ok
		},
		handle: patternDetected,
	},
}

func (d *Detector) classify(next domain.TerminalState, recent []string) (rule, bool) {
	for _, r := range rules {
		if r.match(d, next, recent) {
			return r, true
		}
	}
	return rule{}, false
}

// signature is a known two-step command sequence and its usual third step.
type signature struct {
	first, second string
	next          string
	reason        string
}

var signatures = []signature{
	{first: "git add", second: "git commit", next: "git push", reason: "You usually push after committing"},
	{first: "git fetch", second: "git status", next: "git pull --rebase", reason: "Bring your branch up to date"},
	{first: "npm install", second: "npm run build", next: "npm test", reason: "Run the tests for this build"},
	{first: "go build", second: "go test", next: "go vet ./...", reason: "Vet the code before committing"},
	{first: "docker build", second: "docker run", next: "docker ps", reason: "Check the running container"},
	{first: "terraform init", second: "terraform plan", next: "terraform apply", reason: "Apply the reviewed plan"},
	{first: "make", second: "make test", next: "make install", reason: "Install the tested build"},
}

func matchSignature(recent []string) (signature, bool) {
	n := len(recent)
	if n < 2 {
		return signature{}, false
	}
	first := normalize(recent[n-2])
	second := normalize(recent[n-1])
	for _, sig := range signatures {
		if hasCommandPrefix(first, sig.first) && hasCommandPrefix(second, sig.second) {
			return sig, true
		}
	}
	return signature{}, false
}

func normalize(cmd string) string {
	return strings.Join(strings.Fields(strings.ToLower(cmd)), " ")
}

// hasCommandPrefix matches whole words, so "make" does not match "makefile".
func hasCommandPrefix(cmd, prefix string) bool {
	if !strings.HasPrefix(cmd, prefix) {
		return false
	}
	return len(cmd) == len(prefix) || cmd[len(prefix)] == ' '
}
