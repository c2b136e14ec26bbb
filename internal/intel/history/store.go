// Package history keeps the bounded, in-memory log of executed commands that
// the analyzers and the trigger detector read from.
package history

import (
	"errors"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
)

var (
	// ErrUnknownEntry is returned when completing an evicted or unknown entry.
	ErrUnknownEntry = errors.New("history entry not found")
	// ErrAlreadyCompleted is returned when an entry is completed twice.
	ErrAlreadyCompleted = errors.New("history entry already completed")
)

// Store is an append-only, FIFO-bounded command log. It is owned by a single
// session; callers serialize mutation.
type Store struct {
	max     int
	entries []*domain.HistoryEntry
	nextID  uint64
}

// NewStore creates a store holding at most max entries (minimum 1).
func NewStore(max int) *Store {
	if max < 1 {
		max = 1
	}
	return &Store{max: max, nextID: 1}
}

// Append records a command start and returns a copy of the stored entry.
func (s *Store) Append(command, dir string, at time.Time) domain.HistoryEntry {
	entry := &domain.HistoryEntry{
		ID:         s.nextID,
		Command:    command,
		Timestamp:  at,
		WorkingDir: dir,
	}
	s.nextID++
	s.push(entry)
	return *entry
}

// Restore appends a previously persisted entry, assigning it a fresh ID.
func (s *Store) Restore(e domain.HistoryEntry) domain.HistoryEntry {
	e.ID = s.nextID
	s.nextID++
	s.push(&e)
	return e
}

func (s *Store) push(entry *domain.HistoryEntry) {
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.max {
		evict := len(s.entries) - s.max
		for i := 0; i < evict; i++ {
			s.entries[i] = nil
		}
		s.entries = s.entries[evict:]
	}
}

// Complete fills in the outcome of a running command exactly once.
func (s *Store) Complete(id uint64, exitCode int, duration time.Duration, errContext string) (domain.HistoryEntry, error) {
	entry := s.find(id)
	if entry == nil {
		return domain.HistoryEntry{}, ErrUnknownEntry
	}
	if entry.Completed() {
		return *entry, ErrAlreadyCompleted
	}
	code := exitCode
	ms := duration.Milliseconds()
	entry.ExitCode = &code
	entry.DurationMS = &ms
	entry.ErrorContext = errContext
	return *entry, nil
}

func (s *Store) find(id uint64) *domain.HistoryEntry {
	// Recent entries are the usual target.
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ID == id {
			return s.entries[i]
		}
	}
	return nil
}

// Snapshot returns the entries oldest first. The slice is independent of the
// store and safe to share between concurrent readers.
func (s *Store) Snapshot() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

// Last returns the most recent entry.
func (s *Store) Last() (domain.HistoryEntry, bool) {
	if len(s.entries) == 0 {
		return domain.HistoryEntry{}, false
	}
	return *s.entries[len(s.entries)-1], true
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Cap returns the configured capacity.
func (s *Store) Cap() int {
	return s.max
}
