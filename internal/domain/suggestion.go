package domain

import "math"

// SuggestionKind tags the payload carried by a Suggestion.
type SuggestionKind string

const (
	SuggestionRunCommand    SuggestionKind = "run_command"
	SuggestionExplanation   SuggestionKind = "explanation"
	SuggestionCorrection    SuggestionKind = "correction"
	SuggestionWorkflowSteps SuggestionKind = "workflow_steps"
	SuggestionTip           SuggestionKind = "tip"
)

// Source patterns identify which part of the engine produced a suggestion.
const (
	SourceSequential    = "sequential"
	SourceContextual    = "contextual"
	SourceWorkflow      = "workflow"
	SourceErrorRecovery = "error_recovery"
	SourceTypo          = "typo"
	SourceTrigger       = "trigger"
	SourceAI            = "ai"
)

// Suggestion is a ranked, confidence-scored recommendation. Values are never
// mutated after construction; build them through NewSuggestion so the
// confidence stays finite and inside [0,1].
type Suggestion struct {
	Kind       SuggestionKind `json:"kind"`
	Command    string         `json:"command,omitempty"`
	Steps      []string       `json:"steps,omitempty"`
	Text       string         `json:"text,omitempty"`
	Confidence float64        `json:"confidence"`
	Reason     string         `json:"reason"`
	Source     string         `json:"source"`
}

// NewSuggestion builds a suggestion with a clamped confidence.
func NewSuggestion(kind SuggestionKind, payload string, confidence float64, reason, source string) Suggestion {
	s := Suggestion{
		Kind:       kind,
		Confidence: ClampConfidence(confidence),
		Reason:     reason,
		Source:     source,
	}
	switch kind {
	case SuggestionRunCommand, SuggestionCorrection:
		s.Command = payload
	default:
		s.Text = payload
	}
	return s
}

// NewWorkflowSuggestion builds a multi-step suggestion.
func NewWorkflowSuggestion(steps []string, confidence float64, reason, source string) Suggestion {
	copied := make([]string, len(steps))
	copy(copied, steps)
	return Suggestion{
		Kind:       SuggestionWorkflowSteps,
		Steps:      copied,
		Confidence: ClampConfidence(confidence),
		Reason:     reason,
		Source:     source,
	}
}

// Key identifies a suggestion for de-duplication.
func (s Suggestion) Key() string {
	switch {
	case s.Command != "":
		return s.Command
	case len(s.Steps) > 0:
		return s.Steps[0]
	default:
		return string(s.Kind) + ":" + s.Text
	}
}

// Payload returns the human-facing body of the suggestion.
func (s Suggestion) Payload() string {
	switch {
	case s.Command != "":
		return s.Command
	case len(s.Steps) > 0:
		out := s.Steps[0]
		for _, step := range s.Steps[1:] {
			out += " && " + step
		}
		return out
	default:
		return s.Text
	}
}

// ClampConfidence maps any float into [0,1]; NaN becomes 0.
func ClampConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
