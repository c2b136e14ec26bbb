package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReportsCreatedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := New(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, Handler{FileCreated: func(p string) {
			created <- p
			cancel()
		}}, 0)
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o600))

	select {
	case p := <-created:
		assert.Equal(t, "go.mod", filepath.Base(p))
	case <-time.After(4 * time.Second):
		t.Fatal("no create event")
	}
	require.NoError(t, <-done)
}

func TestWatcher_Ticks(t *testing.T) {
	w, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var ticks int
	err = w.Run(ctx, Handler{Tick: func(time.Time) {
		ticks++
		if ticks == 2 {
			cancel()
		}
	}}, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, ticks)
}

func TestIgnored(t *testing.T) {
	assert.True(t, ignored("/x/.main.go.swp"))
	assert.True(t, ignored("/x/notes~"))
	assert.False(t, ignored("/x/Dockerfile"))
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
