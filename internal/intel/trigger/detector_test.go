package trigger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubChat struct {
	content string
	err     error
	block   bool

	mu    sync.Mutex
	calls []string
}

func (s *stubChat) Chat(ctx context.Context, system, user string) (ports.ChatResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, user)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return ports.ChatResponse{}, ctx.Err()
	}
	if s.err != nil {
		return ports.ChatResponse{}, s.err
	}
	return ports.ChatResponse{Content: s.content}, nil
}

func (s *stubChat) prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type maskRedactor struct{ secret string }

func (r maskRedactor) Redact(text string) string {
	return strings.ReplaceAll(text, r.secret, "[REDACTED]")
}

func newDetector(opts Options) *Detector {
	if opts.Mask == 0 {
		opts.Mask = domain.AllTriggersEnabled
	}
	opts.SlowThresholdMS = 1000
	return New(opts)
}

func failed(cmd, errText string) domain.TerminalState {
	return domain.TerminalState{
		LastCommand: cmd,
		ExitCode:    domain.IntPtr(1),
		ErrorOutput: errText,
		CurrentDir:  "/work",
		Timestamp:   time.Unix(1_700_000_000, 0),
	}
}

func TestProcess_FailedOutranksSlow(t *testing.T) {
	d := newDetector(Options{})
	snap := failed("make", "permission denied")
	snap.DurationMS = domain.Int64Ptr(60_000)

	out := d.Process(context.Background(), snap, nil)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerCommandFailed, *out.Trigger)
}

func TestProcess_Slow(t *testing.T) {
	d := newDetector(Options{})
	out := d.Process(context.Background(), domain.TerminalState{
		LastCommand: "sleep 5",
		ExitCode:    domain.IntPtr(0),
		DurationMS:  domain.Int64Ptr(5000),
	}, nil)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerCommandSlow, *out.Trigger)
	require.Len(t, out.Suggestions, 1)
	assert.Equal(t, domain.SuggestionTip, out.Suggestions[0].Kind)
	assert.Contains(t, out.Suggestions[0].Text, "5.0s")
}

func TestProcess_DisabledTriggerReturnsNothing(t *testing.T) {
	chat := &stubChat{content: "ls"}
	d := newDetector(Options{Mask: domain.AllTriggersEnabled.Without(domain.TriggerCommandFailed), Chat: chat})

	out := d.Process(context.Background(), failed("cat x", "permission denied"), nil)
	assert.Empty(t, out.Suggestions)
	assert.Nil(t, out.Pending)
	assert.Empty(t, chat.prompts())

	prev, ok := d.Previous()
	require.True(t, ok)
	assert.Equal(t, "cat x", prev.LastCommand)
}

func TestProcess_SnapshotAlwaysReplaced(t *testing.T) {
	d := newDetector(Options{})
	_, ok := d.Previous()
	assert.False(t, ok)

	first := domain.TerminalState{LastCommand: "ls", CurrentDir: "/a"}
	out := d.Process(context.Background(), first, nil)
	assert.False(t, out.Fired())

	second := domain.TerminalState{LastCommand: "pwd", CurrentDir: "/a"}
	d.Process(context.Background(), second, nil)
	prev, ok := d.Previous()
	require.True(t, ok)
	assert.Equal(t, "pwd", prev.LastCommand)
}

func TestProcess_StaticFailureFixes(t *testing.T) {
	tests := []struct {
		name   string
		snap   domain.TerminalState
		want   string
		reason string
	}{
		{
			name:   "permission denied retries with sudo",
			snap:   failed("cat /etc/shadow", "cat: /etc/shadow: Permission denied"),
			want:   "sudo cat /etc/shadow",
			reason: "Retry with elevated privileges",
		},
		{
			name: "missing upstream uses branch",
			snap: func() domain.TerminalState {
				s := failed("git push", "fatal: The current branch feature has no upstream branch.")
				s.GitBranch = domain.StringPtr("feature")
				return s
			}(),
			want: "git push --set-upstream origin feature",
		},
		{
			name: "python module from submatch",
			snap: failed("python app.py", "ModuleNotFoundError: No module named 'requests'"),
			want: "pip install requests",
		},
		{
			name: "missing file lists directory",
			snap: failed("cat nope.txt", "cat: nope.txt: No such file or directory"),
			want: "ls -la /work",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDetector(Options{})
			out := d.Process(context.Background(), tt.snap, nil)
			require.Len(t, out.Suggestions, 1)
			s := out.Suggestions[0]
			assert.Equal(t, domain.SuggestionCorrection, s.Kind)
			assert.Equal(t, tt.want, s.Command)
			assert.Equal(t, domain.SourceTrigger, s.Source)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, s.Reason)
			}
			assert.Nil(t, out.Pending)
		})
	}
}

func TestProcess_UpstreamWithoutBranchFallsThrough(t *testing.T) {
	d := newDetector(Options{})
	out := d.Process(context.Background(), failed("git push", "has no upstream branch"), nil)
	assert.Equal(t, domain.TriggerCommandFailed, *out.Trigger)
	assert.Empty(t, out.Suggestions)
	assert.Nil(t, out.Pending, "no chat client configured")
}

func TestProcess_AIFallback(t *testing.T) {
	chat := &stubChat{content: "```sh\n$ kubectl config use-context prod\n```"}
	d := newDetector(Options{Chat: chat, Redactor: maskRedactor{secret: "hunter2"}})

	out := d.Process(context.Background(), failed("deploy --token hunter2", "error: context \"prod\" not found"), nil)
	assert.Empty(t, out.Suggestions)
	require.NotNil(t, out.Pending)

	s, ok := out.Pending.Wait(context.Background())
	require.True(t, ok)
	assert.Equal(t, "kubectl config use-context prod", s.Command)
	assert.Equal(t, domain.SourceAI, s.Source)
	assert.Equal(t, domain.SuggestionCorrection, s.Kind)

	prompts := chat.prompts()
	require.Len(t, prompts, 1)
	assert.NotContains(t, prompts[0], "hunter2")
	assert.Contains(t, prompts[0], "Exit code: 1")
}

func TestProcess_AIProviderFailureYieldsNothing(t *testing.T) {
	chat := &stubChat{err: errors.New("503 from provider")}
	d := newDetector(Options{Chat: chat})

	out := d.Process(context.Background(), failed("foo", "segmentation fault"), nil)
	require.NotNil(t, out.Pending)
	_, ok := out.Pending.Wait(context.Background())
	assert.False(t, ok)
}

func TestPending_CancelStopsWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	chat := &stubChat{block: true}
	d := newDetector(Options{Chat: chat})

	out := d.Process(context.Background(), failed("foo", "weird failure"), nil)
	require.NotNil(t, out.Pending)

	waitCtx, cancelWait := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelWait()
	_, ok := out.Pending.Wait(waitCtx)
	assert.False(t, ok)

	out.Pending.Cancel()
	select {
	case <-out.Pending.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after Cancel")
	}
	_, ok = out.Pending.Wait(context.Background())
	assert.False(t, ok)

	// detector state is intact and usable after abandoning the call
	prev, okPrev := d.Previous()
	require.True(t, okPrev)
	assert.Equal(t, "foo", prev.LastCommand)
}

func TestPending_NilIsSafe(t *testing.T) {
	var p *Pending
	p.Cancel()
	<-p.Done()
	_, ok := p.Wait(context.Background())
	assert.False(t, ok)
}

func TestProcess_GitStatusChanged(t *testing.T) {
	d := newDetector(Options{})
	ctx := context.Background()

	// no previous snapshot: never fires
	out := d.Process(ctx, domain.TerminalState{CurrentDir: "/r", GitBranch: domain.StringPtr("main")}, nil)
	assert.False(t, out.Fired())

	out = d.Process(ctx, domain.TerminalState{CurrentDir: "/r", GitBranch: domain.StringPtr("main")}, nil)
	assert.False(t, out.Fired())

	out = d.Process(ctx, domain.TerminalState{CurrentDir: "/r", GitBranch: domain.StringPtr("dev"), GitStatus: domain.StringPtr(" M main.go")}, nil)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerGitStatusChanged, *out.Trigger)
	require.Len(t, out.Suggestions, 1)
	assert.Equal(t, "git status", out.Suggestions[0].Command)
	assert.Equal(t, "Now on branch dev", out.Suggestions[0].Reason)
}

func TestProcess_GitBranchAppears(t *testing.T) {
	d := newDetector(Options{})
	ctx := context.Background()
	d.Process(ctx, domain.TerminalState{CurrentDir: "/r"}, nil)

	out := d.Process(ctx, domain.TerminalState{CurrentDir: "/r", GitBranch: domain.StringPtr("main")}, nil)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerGitStatusChanged, *out.Trigger)
	assert.Equal(t, "git log --oneline -5", out.Suggestions[0].Command)
}

func TestProcess_DirectoryChanged(t *testing.T) {
	d := newDetector(Options{})
	ctx := context.Background()
	d.Process(ctx, domain.TerminalState{CurrentDir: "/a"}, nil)

	out := d.Process(ctx, domain.TerminalState{CurrentDir: "/a/project"}, nil)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerDirectoryChanged, *out.Trigger)
	assert.Equal(t, "Entered project", out.Suggestions[0].Reason)
}

func TestProcess_PatternDetected(t *testing.T) {
	d := newDetector(Options{})
	recent := []string{"ls", "git add -A", "git commit -m 'fix'"}

	out := d.Process(context.Background(), domain.TerminalState{LastCommand: "git commit -m 'fix'", ExitCode: domain.IntPtr(0)}, recent)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerPatternDetected, *out.Trigger)
	assert.Equal(t, "git push", out.Suggestions[0].Command)

	out = d.Process(context.Background(), domain.TerminalState{}, []string{"makefile", "make test"})
	assert.False(t, out.Fired())
}

func TestProcess_ErrorOutputOnSuccess(t *testing.T) {
	d := newDetector(Options{})
	out := d.Process(context.Background(), domain.TerminalState{
		LastCommand: "./run.sh",
		ExitCode:    domain.IntPtr(0),
		ErrorOutput: "warning: no space left on device",
	}, nil)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerErrorOutput, *out.Trigger)
	assert.Equal(t, "df -h", out.Suggestions[0].Command)
}

func TestProcessIdle(t *testing.T) {
	d := New(Options{Mask: domain.AllTriggersEnabled, IdleThreshold: time.Minute})
	start := time.Unix(1_700_000_000, 0)

	assert.False(t, d.ProcessIdle(start.Add(time.Hour)).Fired(), "no snapshot yet")

	d.Process(context.Background(), domain.TerminalState{LastCommand: "vim", Timestamp: start, GitBranch: domain.StringPtr("main")}, nil)
	assert.False(t, d.ProcessIdle(start.Add(30*time.Second)).Fired())

	out := d.ProcessIdle(start.Add(2 * time.Minute))
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerIdleTimeout, *out.Trigger)
	assert.Equal(t, "git status", out.Suggestions[0].Command)

	assert.False(t, d.ProcessIdle(start.Add(3*time.Minute)).Fired(), "fires once per snapshot")
}

func TestProcessIdle_Disabled(t *testing.T) {
	d := New(Options{Mask: domain.AllTriggersEnabled.Without(domain.TriggerIdleTimeout), IdleThreshold: time.Second})
	start := time.Unix(1_700_000_000, 0)
	d.Process(context.Background(), domain.TerminalState{LastCommand: "ls", Timestamp: start}, nil)

	out := d.ProcessIdle(start.Add(time.Minute))
	assert.Empty(t, out.Suggestions)
}

func TestProcessFileCreated(t *testing.T) {
	d := newDetector(Options{})

	out := d.ProcessFileCreated("/work/svc/go.mod")
	require.True(t, out.Fired())
	require.Len(t, out.Suggestions, 1)
	assert.Equal(t, "go mod tidy", out.Suggestions[0].Command)

	assert.Empty(t, d.ProcessFileCreated("/work/notes.txt").Suggestions)
	assert.False(t, d.ProcessFileCreated("").Fired())

	_, ok := d.Previous()
	assert.False(t, ok, "file events do not store snapshots")

	off := newDetector(Options{Mask: domain.AllTriggersEnabled.Without(domain.TriggerFileCreated)})
	assert.Empty(t, off.ProcessFileCreated("package.json").Suggestions)
}

func TestBuildFailurePrompt_Bounded(t *testing.T) {
	snap := failed(strings.Repeat("x", 2000), strings.Repeat("é", 3000))
	prompt := buildFailurePrompt(snap)

	assert.Less(t, len(prompt), maxPromptCommandLen+maxPromptErrorLen+200)
	assert.True(t, strings.Contains(prompt, "Exit code: 1"))
	assert.NotContains(t, prompt, "�")
}

func TestParseCommandReply(t *testing.T) {
	assert.Equal(t, "git pull", parseCommandReply("git pull"))
	assert.Equal(t, "ls -la", parseCommandReply("\n```bash\nls -la\n```"))
	assert.Equal(t, "npm ci", parseCommandReply("`npm ci`"))
	assert.Equal(t, "", parseCommandReply("   \n"))
}

func TestPrime_SetsBaselineWithoutFiring(t *testing.T) {
	d := newDetector(Options{})
	d.Prime(domain.TerminalState{CurrentDir: "/repo", GitBranch: domain.StringPtr("main")})

	prev, ok := d.Previous()
	require.True(t, ok)
	assert.Equal(t, "/repo", prev.CurrentDir)

	out := d.Process(context.Background(), domain.TerminalState{
		LastCommand: "git checkout -b feature",
		ExitCode:    domain.IntPtr(0),
		CurrentDir:  "/repo",
		GitBranch:   domain.StringPtr("feature"),
	}, nil)
	require.True(t, out.Fired())
	assert.Equal(t, domain.TriggerGitStatusChanged, *out.Trigger)
}
