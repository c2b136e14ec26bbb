// Package history persists executed commands so that a new process can
// seed its in-memory history from earlier terminal sessions.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// timestampLayout is fixed-width so that text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		command TEXT NOT NULL,
		working_dir TEXT,
		exit_code INTEGER,
		duration_ms INTEGER,
		error_context TEXT
	);`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_commands_timestamp ON commands(timestamp);`)
	return err
}

// Save inserts a new record. The entry's in-memory ID is not persisted.
func (s *SQLiteStore) Save(entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO commands
		(timestamp, command, working_dir, exit_code, duration_ms, error_context)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UTC().Format(timestampLayout),
		entry.Command,
		entry.WorkingDir,
		nullableInt(entry.ExitCode),
		nullableInt64(entry.DurationMS),
		entry.ErrorContext,
	)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Records returns history entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryEntry, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, command, working_dir, exit_code, duration_ms, error_context FROM commands")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ? OR working_dir LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY timestamp DESC, id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			e        domain.HistoryEntry
			id       int64
			ts       string
			dir      sql.NullString
			exitCode sql.NullInt64
			duration sql.NullInt64
			errCtx   sql.NullString
		)
		if err := rows.Scan(&id, &ts, &e.Command, &dir, &exitCode, &duration, &errCtx); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.ID = uint64(id)
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			e.Timestamp = t
		}
		e.WorkingDir = dir.String
		e.ErrorContext = errCtx.String
		if exitCode.Valid {
			e.ExitCode = domain.IntPtr(int(exitCode.Int64))
		}
		if duration.Valid {
			e.DurationMS = domain.Int64Ptr(duration.Int64)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the cutoff and reports how many went.
func (s *SQLiteStore) Prune(olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec("DELETE FROM commands WHERE timestamp < ?", olderThan.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM commands")
	return err
}

// ExportJSON writes the command table to a jsonl file, oldest first.
func (s *SQLiteStore) ExportJSON(dest string) error {
	entries, err := s.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func writeJSONL(dest string, newestFirst []domain.HistoryEntry) error {
	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	for i := len(newestFirst) - 1; i >= 0; i-- {
		if err := enc.Encode(newestFirst[i]); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}
	return nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
