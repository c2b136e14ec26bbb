// Package analyzer derives next-command suggestions from execution history.
//
// Four independent analyzers read the same immutable input:
//   - Sequential: what usually follows the last command
//   - Contextual: what is usually run in the current directory
//   - Workflow: well-known next steps after the most recent command
//   - ErrorRecovery: remedies for the most recent error text
//
// Aggregate runs them concurrently and merges their output into one ranked list.
package analyzer

import (
	"strings"

	"github.com/doeshing/shai-sense/internal/domain"
)

// Context describes where the user is right now.
type Context struct {
	CurrentDir  string
	LastCommand string
	RecentError string
}

// Input is the read-only view every analyzer receives.
type Input struct {
	History []domain.HistoryEntry
	Recent  []string
	Context Context
	// Keep, when set, rejects suggestions before they count against max.
	Keep func(domain.Suggestion) bool
}

// lastCommand prefers the explicit context, then the newest history entry.
func (in Input) lastCommand() string {
	if in.Context.LastCommand != "" {
		return in.Context.LastCommand
	}
	if n := len(in.History); n > 0 {
		return in.History[n-1].Command
	}
	return ""
}

// mostRecent is the newest executed command, from the rolling list when present.
func (in Input) mostRecent() string {
	if n := len(in.Recent); n > 0 {
		return in.Recent[n-1]
	}
	if n := len(in.History); n > 0 {
		return in.History[n-1].Command
	}
	return ""
}

// Func is a single analyzer.
type Func func(Input) []domain.Suggestion

const maxClassTokens = 3

// commandClass reduces a command line to its verb path: leading tokens up to
// the first flag or path-like argument, at most three. "git commit -m x"
// and "git commit -m y" share the class "git commit".
func commandClass(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	class := []string{fields[0]}
	for _, f := range fields[1:] {
		if len(class) == maxClassTokens || !isSubcommand(f) {
			break
		}
		class = append(class, f)
	}
	return strings.Join(class, " ")
}

func isSubcommand(tok string) bool {
	if tok == "" || tok[0] == '-' {
		return false
	}
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}

// counter tallies keys while remembering first appearance for stable output.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked returns keys with count >= threshold, by count descending then first appearance.
func (c *counter) ranked(threshold int) []keyCount {
	var out []keyCount
	for _, k := range c.order {
		if n := c.counts[k]; n >= threshold {
			out = append(out, keyCount{key: k, count: n})
		}
	}
	// insertion sort keeps equal counts in first-appearance order
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].count > out[j-1].count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

type keyCount struct {
	key   string
	count int
}
