package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/infrastructure/cache"
	"github.com/doeshing/shai-sense/internal/infrastructure/config"
	"github.com/doeshing/shai-sense/internal/infrastructure/security"
	"github.com/doeshing/shai-sense/internal/intel/analyzer"
	"github.com/doeshing/shai-sense/internal/pkg/logger"
)

func buildTestContainer(t *testing.T) *Container {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, filepath.Join(home, "config.yaml"))

	c, err := BuildContainer(context.Background(), Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestBuildContainer_Defaults(t *testing.T) {
	c := buildTestContainer(t)

	assert.FileExists(t, c.ConfigLoader.Path())
	assert.NotNil(t, c.Guard)
	assert.NotNil(t, c.Redactor)
	assert.NotNil(t, c.DoctorService)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".shai", "history.db"), c.HistoryStore.Path())
	assert.False(t, c.Config.IsAIEnabled())
}

func TestNewSession_RestoresJournal(t *testing.T) {
	c := buildTestContainer(t)
	base := time.Now().Add(-time.Hour)
	for i, cmd := range []string{"git add .", "git commit -m x", "git push"} {
		require.NoError(t, c.HistoryStore.Save(domain.HistoryEntry{
			Command:   cmd,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			ExitCode:  domain.IntPtr(0),
		}))
	}

	sess, err := c.NewSession()
	require.NoError(t, err)
	assert.Equal(t, []string{"git add .", "git commit -m x", "git push"}, sess.Recent())
}

func TestVet_DropsBlockedCommands(t *testing.T) {
	guard, err := security.NewGuardrail("")
	require.NoError(t, err)
	c := &Container{Guard: guard, Logger: logger.Nop()}

	in := []domain.Suggestion{
		domain.NewSuggestion(domain.SuggestionRunCommand, "rm -rf /", 0.9, "", domain.SourceAI),
		domain.NewSuggestion(domain.SuggestionRunCommand, "ls", 0.5, "", domain.SourceAI),
		domain.NewSuggestion(domain.SuggestionTip, "rm -rf / is a bad idea", 0.4, "", domain.SourceTrigger),
	}
	out := c.Vet(in)
	require.Len(t, out, 2)
	assert.Equal(t, "ls", out[0].Command)
	assert.Equal(t, domain.SuggestionTip, out[1].Kind)
}

func TestVet_NoGuard(t *testing.T) {
	c := &Container{}
	in := []domain.Suggestion{domain.NewSuggestion(domain.SuggestionRunCommand, "rm -rf /", 0.9, "", domain.SourceAI)}
	assert.Equal(t, in, c.Vet(in))
}

func TestChatClient_WrappedByReplyCache(t *testing.T) {
	c := buildTestContainer(t)
	require.NotNil(t, c.ReplyCache)

	c.Config.Preferences.EnableAI = true
	_, ok := c.chatClient().(*cache.CachingChat)
	assert.True(t, ok)

	c.ReplyCache = nil
	_, ok = c.chatClient().(*cache.CachingChat)
	assert.False(t, ok)
}

func TestChatClient_UnknownModel(t *testing.T) {
	c := buildTestContainer(t)
	c.Config.Preferences.DefaultModel = "ghost"
	assert.Nil(t, c.chatClient())
}

func TestNewSession_GuardAppliesBeforeMax(t *testing.T) {
	c := buildTestContainer(t)
	one := 1
	c.Config.Intelligence.MaxSuggestions = &one
	c.Guard = guardFunc(func(cmd string) bool { return cmd == "echo $PATH" })

	sess, err := c.NewSession()
	require.NoError(t, err)
	e, ok := sess.RecordStart("git add .", "/", time.Now())
	require.True(t, ok)
	_, err = sess.RecordCompletion(e.ID, 127, time.Second, "command not found")
	require.NoError(t, err)

	got, err := sess.Suggest(context.Background(), analyzer.Context{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "git commit", got[0].Command)
}

func TestNewOfflineSession_NoProviderCall(t *testing.T) {
	c := buildTestContainer(t)
	c.Config.Preferences.EnableAI = true
	require.NotNil(t, c.chatClient())

	sess, err := c.NewOfflineSession()
	require.NoError(t, err)
	out := sess.ProcessStateChange(context.Background(), domain.TerminalState{
		LastCommand: "frobnicate --now",
		ExitCode:    domain.IntPtr(3),
		ErrorOutput: "something odd happened",
	})
	require.True(t, out.Fired())
	assert.Nil(t, out.Pending)
}

type guardFunc func(string) bool

func (f guardFunc) Evaluate(cmd string) domain.RiskAssessment {
	return domain.RiskAssessment{Blocked: f(cmd)}
}
