// Package dictionary holds the static set of known command names and the
// table of common misspellings. A Dictionary is immutable after construction
// and safe for concurrent reads.
package dictionary

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dictionary is an ordered set of known commands plus a misspelling map.
// Iteration order is insertion order; the edit-distance matcher relies on it
// for tie-breaking.
type Dictionary struct {
	commands []string
	index    map[string]struct{}
	typos    map[string]string
}

// New builds a dictionary. Duplicate commands keep their first position;
// blank names are ignored.
func New(commands []string, typos map[string]string) *Dictionary {
	d := &Dictionary{
		commands: make([]string, 0, len(commands)),
		index:    make(map[string]struct{}, len(commands)),
		typos:    make(map[string]string, len(typos)),
	}
	for _, cmd := range commands {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" {
			continue
		}
		if _, dup := d.index[cmd]; dup {
			continue
		}
		d.index[cmd] = struct{}{}
		d.commands = append(d.commands, cmd)
	}
	for wrong, right := range typos {
		wrong, right = strings.TrimSpace(wrong), strings.TrimSpace(right)
		if wrong == "" || right == "" {
			continue
		}
		d.typos[wrong] = right
	}
	return d
}

// Default returns the built-in dictionary.
func Default() *Dictionary {
	return New(defaultCommands, defaultTypos)
}

// Contains reports an exact match against a known command.
func (d *Dictionary) Contains(token string) bool {
	_, ok := d.index[token]
	return ok
}

// Typo looks up a known misspelling.
func (d *Dictionary) Typo(token string) (string, bool) {
	canonical, ok := d.typos[token]
	return canonical, ok
}

// Commands returns the known commands in insertion order.
func (d *Dictionary) Commands() []string {
	out := make([]string, len(d.commands))
	copy(out, d.commands)
	return out
}

// Len returns the number of known commands.
func (d *Dictionary) Len() int {
	return len(d.commands)
}

// extension is the YAML schema for user-supplied dictionary additions.
type extension struct {
	Commands []string          `yaml:"commands"`
	Typos    map[string]string `yaml:"typos"`
}

// Extend returns a new dictionary with the extra commands appended after the
// existing ones and the extra typos merged (extras win on conflict).
func (d *Dictionary) Extend(commands []string, typos map[string]string) *Dictionary {
	merged := make(map[string]string, len(d.typos)+len(typos))
	for k, v := range d.typos {
		merged[k] = v
	}
	for k, v := range typos {
		merged[k] = v
	}
	return New(append(d.Commands(), commands...), merged)
}

// LoadFile extends the built-in dictionary with a YAML file. A missing path
// returns the defaults unchanged.
func LoadFile(path string) (*Dictionary, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	var ext extension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	return base.Extend(ext.Commands, ext.Typos), nil
}
