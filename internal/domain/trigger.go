package domain

import (
	"fmt"
	"strings"
)

// Trigger classifies a terminal-state change that may warrant a proactive
// suggestion. The numeric value is the bit position in a TriggerMask.
type Trigger uint8

const (
	TriggerCommandFailed Trigger = iota
	TriggerCommandSlow
	TriggerErrorOutput
	TriggerFileCreated
	TriggerGitStatusChanged
	TriggerDirectoryChanged
	TriggerIdleTimeout
	TriggerPatternDetected
)

var triggerNames = [...]string{
	TriggerCommandFailed:    "command_failed",
	TriggerCommandSlow:      "command_slow",
	TriggerErrorOutput:      "error_output",
	TriggerFileCreated:      "file_created",
	TriggerGitStatusChanged: "git_status_changed",
	TriggerDirectoryChanged: "directory_changed",
	TriggerIdleTimeout:      "idle_timeout",
	TriggerPatternDetected:  "pattern_detected",
}

// AllTriggers lists every trigger in ordinal order.
func AllTriggers() []Trigger {
	out := make([]Trigger, len(triggerNames))
	for i := range triggerNames {
		out[i] = Trigger(i)
	}
	return out
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return fmt.Sprintf("trigger(%d)", uint8(t))
}

// ParseTrigger resolves a trigger from its snake_case name.
func ParseTrigger(name string) (Trigger, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range triggerNames {
		if n == name {
			return Trigger(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trigger %q", name)
}

// TriggerMask is the 8-bit enablement mask, one bit per Trigger ordinal.
type TriggerMask uint8

// AllTriggersEnabled is the default mask.
const AllTriggersEnabled TriggerMask = 0xFF

// Enabled reports whether the trigger's bit is set.
func (m TriggerMask) Enabled(t Trigger) bool {
	return m&(1<<t) != 0
}

// With returns a copy of the mask with the trigger enabled.
func (m TriggerMask) With(t Trigger) TriggerMask {
	return m | (1 << t)
}

// Without returns a copy of the mask with the trigger disabled.
func (m TriggerMask) Without(t Trigger) TriggerMask {
	return m &^ (1 << t)
}

// MaskFromNames builds a mask from trigger names. A nil list (setting
// absent) enables everything; an empty list or "none" disables everything.
func MaskFromNames(names []string) (TriggerMask, error) {
	if names == nil {
		return AllTriggersEnabled, nil
	}
	var mask TriggerMask
	for _, name := range names {
		switch {
		case strings.EqualFold(strings.TrimSpace(name), "all"):
			return AllTriggersEnabled, nil
		case strings.EqualFold(strings.TrimSpace(name), "none"):
			continue
		}
		t, err := ParseTrigger(name)
		if err != nil {
			return 0, err
		}
		mask = mask.With(t)
	}
	return mask, nil
}
