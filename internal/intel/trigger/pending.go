package trigger

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

const (
	maxPromptCommandLen = 512
	maxPromptErrorLen   = 2000
	aiConfidence        = 0.6
	aiReason            = "AI suggested fix"
)

const systemPrompt = `You are a shell assistant. A command just failed.
Reply with exactly one corrected shell command on a single line.
Do not add explanations, markdown or code fences.
If no fix is possible, reply with an empty line.`

// Pending is an in-flight provider call. It never touches detector or
// history state; its only output is the suggestion returned by Wait.
type Pending struct {
	cancel context.CancelFunc
	done   chan struct{}
	result *domain.Suggestion
}

func (d *Detector) askProvider(ctx context.Context, snap domain.TerminalState) *Pending {
	user := buildFailurePrompt(snap)
	if d.opts.Redactor != nil {
		user = d.opts.Redactor.Redact(user)
	}
	return startPending(ctx, d.opts.Chat, d.opts.Logger, user)
}

func startPending(parent context.Context, chat ports.ChatClient, log ports.Logger, user string) *Pending {
	ctx, cancel := context.WithCancel(parent)
	p := &Pending{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		defer cancel()

		resp, err := chat.Chat(ctx, systemPrompt, user)
		if err != nil {
			log.Warn("ai fallback failed", map[string]interface{}{"error": err.Error()})
			return
		}
		cmd := parseCommandReply(resp.Content)
		if cmd == "" {
			log.Debug("ai fallback returned no command", nil)
			return
		}
		s := domain.NewSuggestion(domain.SuggestionCorrection, cmd, aiConfidence, aiReason, domain.SourceAI)
		p.result = &s
	}()
	return p
}

// Wait blocks until the call completes or ctx ends. It reports false when
// the provider failed, returned nothing usable, or the wait was abandoned.
func (p *Pending) Wait(ctx context.Context) (domain.Suggestion, bool) {
	if p == nil {
		return domain.Suggestion{}, false
	}
	select {
	case <-p.done:
		if p.result == nil {
			return domain.Suggestion{}, false
		}
		return *p.result, true
	case <-ctx.Done():
		return domain.Suggestion{}, false
	}
}

// Cancel abandons the call. It does not block; use Done to wait for the
// worker to exit.
func (p *Pending) Cancel() {
	if p == nil {
		return
	}
	p.cancel()
}

// Done is closed when the worker goroutine has exited.
func (p *Pending) Done() <-chan struct{} {
	if p == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

func buildFailurePrompt(snap domain.TerminalState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command: %s\n", truncate(strings.TrimSpace(snap.LastCommand), maxPromptCommandLen))
	if snap.ExitCode != nil {
		fmt.Fprintf(&b, "Exit code: %d\n", *snap.ExitCode)
	}
	if snap.CurrentDir != "" {
		fmt.Fprintf(&b, "Directory: %s\n", snap.CurrentDir)
	}
	if errText := strings.TrimSpace(snap.ErrorOutput); errText != "" {
		fmt.Fprintf(&b, "Error output:\n%s\n", truncate(errText, maxPromptErrorLen))
	}
	return b.String()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// parseCommandReply pulls the first command-looking line out of a reply,
// tolerating code fences and a leading prompt sign.
func parseCommandReply(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimPrefix(line, "$ ")
		return strings.Trim(line, "`")
	}
	return ""
}
