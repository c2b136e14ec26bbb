package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// FileStore appends history records to a jsonl file. It is the fallback
// when the SQLite journal cannot be opened.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// Records returns entries newest first. Line numbers serve as IDs.
func (f *FileStore) Records(limit int, search string) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	all, err := f.readAll()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []domain.HistoryEntry
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if search != "" && !strings.Contains(e.Command, search) && !strings.Contains(e.WorkingDir, search) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Prune rewrites the file without entries older than the cutoff.
func (f *FileStore) Prune(olderThan time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.readAll()
	if err != nil || len(all) == 0 {
		return 0, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	var removed int64
	for _, e := range all {
		if e.Timestamp.Before(olderThan) {
			removed++
			continue
		}
		if err := enc.Encode(e); err != nil {
			return 0, err
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := os.WriteFile(f.path, buf.Bytes(), domain.SecureFilePermissions); err != nil {
		return 0, fmt.Errorf("rewrite history: %w", err)
	}
	return removed, nil
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ExportJSON copies the entries to dest as jsonl, oldest first.
func (f *FileStore) ExportJSON(dest string) error {
	entries, err := f.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// readAll loads entries in file order, skipping corrupt lines.
func (f *FileStore) readAll() ([]domain.HistoryEntry, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []domain.HistoryEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var e domain.HistoryEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		e.ID = uint64(line)
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

var _ ports.HistoryRepository = (*FileStore)(nil)
