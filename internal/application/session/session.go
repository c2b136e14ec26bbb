// Package session bundles the engine components that share state for one
// terminal: the history store, the rolling command list, the trigger detector
// and the typo corrector.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/intel/analyzer"
	"github.com/doeshing/shai-sense/internal/intel/correction"
	"github.com/doeshing/shai-sense/internal/intel/dictionary"
	"github.com/doeshing/shai-sense/internal/intel/history"
	"github.com/doeshing/shai-sense/internal/intel/trigger"
	"github.com/doeshing/shai-sense/internal/pkg/logger"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Options wires a Session. Only Config is required.
type Options struct {
	Config     domain.Config
	Dictionary *dictionary.Dictionary
	Chat       ports.ChatClient
	Redactor   ports.Redactor
	Logger     ports.Logger
	// Keep filters history suggestions before max_suggestions applies.
	Keep func(domain.Suggestion) bool
}

// Session is owned by a single caller; methods must not be called
// concurrently.
type Session struct {
	ID string

	maxSuggestions int
	store          *history.Store
	recent         *history.Recent
	corrector      *correction.Service
	detector       *trigger.Detector
	logger         ports.Logger
	keep           func(domain.Suggestion) bool

	lastError string
}

// New validates the intelligence settings and builds a session.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	mask, err := cfg.Intelligence.TriggerMask()
	if err != nil {
		return nil, fmt.Errorf("enabled triggers: %w", err)
	}

	dict := opts.Dictionary
	if dict == nil {
		dict = dictionary.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Session{
		ID:             uuid.NewString(),
		maxSuggestions: cfg.GetMaxSuggestions(),
		store:          history.NewStore(cfg.GetMaxHistoryEntries()),
		recent:         history.NewRecent(domain.RecentCommandsCapacity),
		corrector:      correction.NewService(dict),
		logger:         log,
		keep:           opts.Keep,
	}
	s.detector = trigger.New(trigger.Options{
		Mask:            mask,
		SlowThresholdMS: cfg.GetSlowCommandThresholdMS(),
		IdleThreshold:   time.Duration(cfg.GetIdleThresholdMS()) * time.Millisecond,
		Chat:            opts.Chat,
		Redactor:        opts.Redactor,
		Logger:          log,
	})
	log.Debug("session started", map[string]interface{}{
		"session":   s.ID,
		"max":       s.maxSuggestions,
		"history":   s.store.Cap(),
		"dict_size": dict.Len(),
	})
	return s, nil
}

// RecordStart appends a started command to history and the rolling list.
// Blank commands are ignored.
func (s *Session) RecordStart(command, dir string, at time.Time) (domain.HistoryEntry, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return domain.HistoryEntry{}, false
	}
	entry := s.store.Append(command, dir, at)
	s.recent.Push(command)
	return entry, true
}

// RecordCompletion stores the outcome of a started command. A non-empty
// errText becomes the default RecentError for the next Suggest call.
func (s *Session) RecordCompletion(id uint64, exitCode int, duration time.Duration, errText string) (domain.HistoryEntry, error) {
	entry, err := s.store.Complete(id, exitCode, duration, errText)
	if err != nil {
		if errors.Is(err, history.ErrUnknownEntry) {
			s.logger.Debug("completion for evicted entry", map[string]interface{}{"id": id})
		}
		return entry, err
	}
	s.noteOutcome(exitCode, errText)
	return entry, nil
}

// noteOutcome remembers errText when the command failed or printed an error.
func (s *Session) noteOutcome(exitCode int, errText string) {
	if exitCode != 0 || strings.TrimSpace(errText) != "" {
		s.lastError = errText
	} else {
		s.lastError = ""
	}
}

// Correct proposes a correction for a mistyped command line.
func (s *Session) Correct(raw string) (correction.Correction, bool) {
	return s.corrector.SuggestCorrection(raw)
}

// AutoCorrect returns raw with a high-confidence correction applied.
func (s *Session) AutoCorrect(raw string) string {
	return s.corrector.AutoCorrect(raw)
}

// Suggest ranks history-driven suggestions for the given context. When
// c.RecentError is empty the error of the last failed command is used.
func (s *Session) Suggest(ctx context.Context, c analyzer.Context) ([]domain.Suggestion, error) {
	if c.RecentError == "" {
		c.RecentError = s.lastError
	}
	in := analyzer.Input{
		History: s.store.Snapshot(),
		Recent:  s.recent.Items(),
		Context: c,
		Keep:    s.keep,
	}
	out, err := analyzer.Aggregate(ctx, in, s.maxSuggestions)
	if err != nil {
		return nil, fmt.Errorf("aggregate suggestions: %w", err)
	}
	return out, nil
}

// ProcessStateChange feeds a terminal snapshot to the trigger detector.
func (s *Session) ProcessStateChange(ctx context.Context, state domain.TerminalState) trigger.Outcome {
	out := s.detector.Process(ctx, state, s.recent.Items())
	if out.Fired() {
		s.logger.Debug("trigger fired", map[string]interface{}{
			"trigger":     out.Trigger.String(),
			"suggestions": len(out.Suggestions),
			"pending":     out.Pending != nil,
		})
	}
	return out
}

// Prime records the baseline terminal state, such as the state before a
// command runs, so that the next snapshot can be compared against it.
func (s *Session) Prime(state domain.TerminalState) {
	s.detector.Prime(state)
}

// ProcessIdle checks for an idle timeout at now.
func (s *Session) ProcessIdle(now time.Time) trigger.Outcome {
	return s.detector.ProcessIdle(now)
}

// ProcessFileCreated reports a newly created file.
func (s *Session) ProcessFileCreated(path string) trigger.Outcome {
	return s.detector.ProcessFileCreated(path)
}

// Restore seeds the session from persisted entries, oldest first. The
// newest entry's error text becomes the default RecentError, as if it had
// just been completed.
func (s *Session) Restore(entries []domain.HistoryEntry) {
	for _, e := range entries {
		if strings.TrimSpace(e.Command) == "" {
			continue
		}
		s.store.Restore(e)
		s.recent.Push(e.Command)
		exitCode := 0
		if e.ExitCode != nil {
			exitCode = *e.ExitCode
		}
		s.noteOutcome(exitCode, e.ErrorContext)
	}
}

// History returns a copy of the in-memory history, oldest first.
func (s *Session) History() []domain.HistoryEntry {
	return s.store.Snapshot()
}

// Recent returns the rolling command list, oldest first.
func (s *Session) Recent() []string {
	return s.recent.Items()
}
