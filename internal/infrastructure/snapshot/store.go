// Package snapshot persists the last terminal state of each shell so that
// short-lived hook processes can compare consecutive commands.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// maxAge drops snapshots of shells that are long gone.
const maxAge = 7 * 24 * time.Hour

// FileStore keeps one JSON file per shell session under dir.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore builds a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Load implements ports.SnapshotStore. A missing or stale snapshot is
// reported as absent.
func (s *FileStore) Load(session string) (domain.TerminalState, bool, error) {
	data, err := os.ReadFile(s.pathFor(session))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.TerminalState{}, false, nil
		}
		return domain.TerminalState{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	var state domain.TerminalState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.TerminalState{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	if !state.Timestamp.IsZero() && s.now().Sub(state.Timestamp) > maxAge {
		return domain.TerminalState{}, false, nil
	}
	return state, true, nil
}

// Save implements ports.SnapshotStore.
func (s *FileStore) Save(session string, state domain.TerminalState) error {
	if err := os.MkdirAll(s.dir, domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	tmp := s.pathFor(session) + ".tmp"
	if err := os.WriteFile(tmp, data, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, s.pathFor(session))
}

// Prune removes snapshot files older than maxAge.
func (s *FileStore) Prune() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || e.IsDir() {
			continue
		}
		if s.now().Sub(info.ModTime()) > maxAge {
			if os.Remove(filepath.Join(s.dir, e.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// pathFor keeps session names to a safe file name.
func (s *FileStore) pathFor(session string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, session)
	if clean == "" {
		clean = "default"
	}
	return filepath.Join(s.dir, clean+".json")
}

var _ ports.SnapshotStore = (*FileStore)(nil)
