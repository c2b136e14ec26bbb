package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/shai-sense/assets"
	"github.com/doeshing/shai-sense/internal/pkg/filesystem"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Redactor implements ports.Redactor with ordered regexp rules.
type Redactor struct {
	rules []compiledRule
}

type compiledRule struct {
	re   *regexp.Regexp
	rule RedactionRule
}

// RedactionRule replaces every match of Pattern with Replacement.
// Replacement may reference groups as $1 or ${name}.
type RedactionRule struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules []RedactionRule `yaml:"rules"`
}

// NewRedactor compiles the embedded default rules followed by the rules in
// extraPath. A missing extra file is not an error.
func NewRedactor(extraPath string) (*Redactor, error) {
	defaults, err := parseRules(assets.DefaultRedactionYAML)
	if err != nil {
		return nil, fmt.Errorf("default redaction rules: %w", err)
	}
	extra, err := loadRules(filesystem.ExpandPath(extraPath))
	if err != nil {
		return nil, err
	}
	return Compile(append(defaults.Rules, extra.Rules...))
}

// Compile builds a redactor from explicit rules.
func Compile(rules []RedactionRule) (*Redactor, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("redaction rule %q: %w", rule.Name, err)
		}
		if rule.Replacement == "" {
			rule.Replacement = "<redacted>"
		}
		compiled = append(compiled, compiledRule{re: re, rule: rule})
	}
	return &Redactor{rules: compiled}, nil
}

// Redact implements ports.Redactor.
func (r *Redactor) Redact(text string) string {
	if r == nil {
		return text
	}
	for _, c := range r.rules {
		text = c.re.ReplaceAllString(text, c.rule.Replacement)
	}
	return text
}

// Len reports the number of active rules.
func (r *Redactor) Len() int {
	return len(r.rules)
}

func loadRules(path string) (RulesFile, error) {
	if path == "" {
		return RulesFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RulesFile{}, nil
		}
		return RulesFile{}, fmt.Errorf("read redaction rules: %w", err)
	}
	rules, err := parseRules(data)
	if err != nil {
		return RulesFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

func parseRules(data []byte) (RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("parse redaction rules: %w", err)
	}
	return rules, nil
}

var _ ports.Redactor = (*Redactor)(nil)
