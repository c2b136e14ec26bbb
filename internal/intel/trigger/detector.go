// Package trigger watches consecutive terminal snapshots and turns the first
// notable change into a proactive suggestion.
package trigger

import (
	"context"
	"time"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/pkg/logger"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Options configures a Detector. A zero Mask disables every trigger; use
// domain.AllTriggersEnabled for the default.
type Options struct {
	Mask            domain.TriggerMask
	SlowThresholdMS int64
	IdleThreshold   time.Duration

	// Chat is optional. When set, failed commands without a static fix are
	// sent to the provider as a cancelable Pending call.
	Chat     ports.ChatClient
	Redactor ports.Redactor
	Logger   ports.Logger
}

// Outcome is the result of one detector call. Trigger is nil when no rule
// matched; Suggestions is empty when the trigger is disabled.
type Outcome struct {
	Trigger     *domain.Trigger
	Suggestions []domain.Suggestion
	Pending     *Pending
}

// Fired reports whether a trigger was classified.
func (o Outcome) Fired() bool {
	return o.Trigger != nil
}

// Detector holds the previous snapshot. It is not safe for concurrent use.
type Detector struct {
	opts      Options
	previous  *domain.TerminalState
	idleFired bool
}

// New creates a Detector with no previous snapshot.
func New(opts Options) *Detector {
	if opts.SlowThresholdMS <= 0 {
		opts.SlowThresholdMS = domain.DefaultSlowCommandThresholdMS
	}
	if opts.IdleThreshold <= 0 {
		opts.IdleThreshold = time.Duration(domain.DefaultIdleThresholdMS) * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Detector{opts: opts}
}

// Previous returns a copy of the stored snapshot.
func (d *Detector) Previous() (domain.TerminalState, bool) {
	if d.previous == nil {
		return domain.TerminalState{}, false
	}
	return *d.previous, true
}

// Mask returns the active enablement mask.
func (d *Detector) Mask() domain.TriggerMask {
	return d.opts.Mask
}

// Process classifies the transition from the previous snapshot to next,
// dispatches the enabled handler and stores next as the new previous
// snapshot. recent is the rolling command list, oldest first.
func (d *Detector) Process(ctx context.Context, next domain.TerminalState, recent []string) Outcome {
	defer d.replace(next)

	r, ok := d.classify(next, recent)
	if !ok {
		return Outcome{}
	}
	trig := r.trigger
	out := Outcome{Trigger: &trig}
	if !d.opts.Mask.Enabled(trig) {
		d.opts.Logger.Debug("trigger disabled", map[string]interface{}{"trigger": trig.String()})
		return out
	}

	if s := r.handle(next, recent); s != nil {
		out.Suggestions = []domain.Suggestion{*s}
		return out
	}
	if trig == domain.TriggerCommandFailed && d.opts.Chat != nil {
		out.Pending = d.askProvider(ctx, next)
	}
	return out
}

// ProcessIdle fires idle_timeout once per stored snapshot when now is past
// the idle threshold.
func (d *Detector) ProcessIdle(now time.Time) Outcome {
	if d.previous == nil || d.idleFired || d.previous.Timestamp.IsZero() {
		return Outcome{}
	}
	if now.Sub(d.previous.Timestamp) <= d.opts.IdleThreshold {
		return Outcome{}
	}
	d.idleFired = true

	trig := domain.TriggerIdleTimeout
	out := Outcome{Trigger: &trig}
	if !d.opts.Mask.Enabled(trig) {
		return out
	}
	if s := idleSuggestion(*d.previous); s != nil {
		out.Suggestions = []domain.Suggestion{*s}
	}
	return out
}

// ProcessFileCreated fires file_created for a new file. The stored snapshot
// is left untouched.
func (d *Detector) ProcessFileCreated(path string) Outcome {
	if path == "" {
		return Outcome{}
	}
	trig := domain.TriggerFileCreated
	out := Outcome{Trigger: &trig}
	if !d.opts.Mask.Enabled(trig) {
		return out
	}
	if s := fileCreatedSuggestion(path); s != nil {
		out.Suggestions = []domain.Suggestion{*s}
	}
	return out
}

// Prime stores state as the previous snapshot without classifying it.
func (d *Detector) Prime(state domain.TerminalState) {
	d.replace(state)
}

func (d *Detector) replace(next domain.TerminalState) {
	snap := next
	d.previous = &snap
	d.idleFired = false
}
