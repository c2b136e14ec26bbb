package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/shai-sense/assets"
	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/pkg/filesystem"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Guardrail implements ports.CommandGuard.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based guardrail rule. Action is "block"
// or "warn".
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

// GuardrailFile is the YAML schema root.
type GuardrailFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads rules from path, or the embedded defaults when the file
// is missing or empty.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadGuardrail(filesystem.ExpandPath(path))
	if err != nil {
		return nil, err
	}

	compiled := make([]compiledPattern, 0, len(rules.Rules.DangerPatterns))
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("guardrail pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	return &Guardrail{patterns: compiled}, nil
}

// Evaluate implements ports.CommandGuard. The most severe matching rule
// decides the level; any matching block rule blocks.
func (g *Guardrail) Evaluate(command string) domain.RiskAssessment {
	assessment := domain.RiskAssessment{Level: domain.RiskSafe}
	if g == nil {
		return assessment
	}
	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(command) {
			continue
		}
		level := domain.RiskLevel(strings.ToLower(pattern.rule.Level))
		if level.Severity() > assessment.Level.Severity() {
			assessment.Level = level
		}
		if strings.EqualFold(pattern.rule.Action, "block") {
			assessment.Blocked = true
		}
		assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
	}
	return assessment
}

func loadGuardrail(path string) (GuardrailFile, error) {
	data := assets.DefaultGuardrailYAML
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = raw
		case !errors.Is(err, fs.ErrNotExist):
			return GuardrailFile{}, fmt.Errorf("read guardrail rules: %w", err)
		}
	}

	var rules GuardrailFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return GuardrailFile{}, fmt.Errorf("parse guardrail rules: %w", err)
	}
	if len(rules.Rules.DangerPatterns) == 0 && path != "" {
		return loadGuardrail("")
	}
	return rules, nil
}

var _ ports.CommandGuard = (*Guardrail)(nil)
