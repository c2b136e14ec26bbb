package domain_test

import (
	"math"
	"testing"

	"github.com/doeshing/shai-sense/internal/domain"
)

func TestClampConfidence(t *testing.T) {
	tests := map[string]struct {
		in   float64
		want float64
	}{
		"nan":      {in: math.NaN(), want: 0},
		"negative": {in: -0.3, want: 0},
		"too high": {in: 1.7, want: 1},
		"inf":      {in: math.Inf(1), want: 1},
		"in range": {in: 0.42, want: 0.42},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := domain.ClampConfidence(tt.in); got != tt.want {
				t.Fatalf("ClampConfidence(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSuggestionPayload(t *testing.T) {
	run := domain.NewSuggestion(domain.SuggestionRunCommand, "git push", 0.5, "r", domain.SourceWorkflow)
	if run.Command != "git push" || run.Key() != "git push" {
		t.Fatalf("unexpected run suggestion %+v", run)
	}

	tip := domain.NewSuggestion(domain.SuggestionTip, "take a break", 2, "r", domain.SourceTrigger)
	if tip.Text != "take a break" || tip.Confidence != 1 {
		t.Fatalf("unexpected tip suggestion %+v", tip)
	}

	steps := []string{"git add .", "git commit"}
	wf := domain.NewWorkflowSuggestion(steps, 0.6, "r", domain.SourceTrigger)
	steps[0] = "mutated"
	if wf.Steps[0] != "git add ." {
		t.Fatal("workflow suggestion must not alias caller slice")
	}
	if wf.Payload() != "git add . && git commit" {
		t.Fatalf("Payload() = %q", wf.Payload())
	}
}
