package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shai-sense/internal/pkg/logger"
	"github.com/doeshing/shai-sense/internal/ports"
)

type countingChat struct {
	calls int
	err   error
}

func (c *countingChat) Chat(_ context.Context, _, user string) (ports.ChatResponse, error) {
	c.calls++
	if c.err != nil {
		return ports.ChatResponse{}, c.err
	}
	return ports.ChatResponse{Content: "reply to " + user}, nil
}

func TestFileCache_GetSet(t *testing.T) {
	c := NewFileCache(t.TempDir(), 10, time.Hour)

	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(Entry{Key: "k", Content: "git init"}))
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "git init", got.Content)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFileCache_ExpiresEntries(t *testing.T) {
	c := NewFileCache(t.TempDir(), 10, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(Entry{Key: "k", Content: "x"}))

	now = now.Add(2 * time.Minute)
	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := c.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileCache_EvictsOldest(t *testing.T) {
	dir := t.TempDir()
	c := NewFileCache(dir, 2, 0)
	base := time.Now().Add(-time.Hour)
	for i, key := range []string{"a", "b"} {
		require.NoError(t, c.Set(Entry{Key: key}))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(dir, key+".json"), mod, mod))
	}
	require.NoError(t, c.Set(Entry{Key: "c"}))

	_, ok, _ := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCachingChat(t *testing.T) {
	next := &countingChat{}
	chat := NewCachingChat(next, NewFileCache(t.TempDir(), 10, time.Hour), "m", logger.Nop())
	ctx := context.Background()

	first, err := chat.Chat(ctx, "sys", "boom")
	require.NoError(t, err)
	second, err := chat.Chat(ctx, "sys", "boom")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	_, err = chat.Chat(ctx, "sys", "other")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachingChat_ErrorsAreNotCached(t *testing.T) {
	next := &countingChat{err: errors.New("down")}
	chat := NewCachingChat(next, NewFileCache(t.TempDir(), 10, time.Hour), "m", logger.Nop())

	_, err := chat.Chat(context.Background(), "s", "u")
	require.Error(t, err)
	_, err = chat.Chat(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestKeyDependsOnModel(t *testing.T) {
	assert.NotEqual(t, Key("a", "s", "u"), Key("b", "s", "u"))
	assert.Equal(t, Key("a", "s", "u"), Key("a", "s", "u"))
}
