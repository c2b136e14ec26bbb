package domain_test

import (
	"testing"

	"github.com/doeshing/shai-sense/internal/domain"
)

func TestTriggerMask(t *testing.T) {
	mask := domain.AllTriggersEnabled
	for _, trig := range domain.AllTriggers() {
		if !mask.Enabled(trig) {
			t.Fatalf("default mask should enable %s", trig)
		}
	}

	mask = mask.Without(domain.TriggerCommandFailed)
	if mask.Enabled(domain.TriggerCommandFailed) {
		t.Fatal("command_failed should be disabled")
	}
	if !mask.Enabled(domain.TriggerCommandSlow) {
		t.Fatal("command_slow should stay enabled")
	}
	if got := mask.With(domain.TriggerCommandFailed); got != domain.AllTriggersEnabled {
		t.Fatalf("With() = %08b, want all bits", got)
	}
}

func TestMaskFromNames(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    domain.TriggerMask
		wantErr bool
	}{
		{name: "nil enables all", input: nil, want: domain.AllTriggersEnabled},
		{name: "all keyword", input: []string{"ALL"}, want: domain.AllTriggersEnabled},
		{name: "empty disables all", input: []string{}, want: 0},
		{name: "none keyword", input: []string{"none"}, want: 0},
		{name: "single", input: []string{"command_failed"}, want: 1},
		{name: "pair", input: []string{"command_slow", "pattern_detected"}, want: 1<<1 | 1<<7},
		{name: "unknown", input: []string{"nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.MaskFromNames(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("MaskFromNames(%v) = %08b, want %08b", tt.input, got, tt.want)
			}
		})
	}
}

func TestTriggerStringRoundTrip(t *testing.T) {
	for _, trig := range domain.AllTriggers() {
		parsed, err := domain.ParseTrigger(trig.String())
		if err != nil {
			t.Fatalf("ParseTrigger(%s): %v", trig, err)
		}
		if parsed != trig {
			t.Fatalf("ParseTrigger(%s) = %s", trig, parsed)
		}
	}
}
