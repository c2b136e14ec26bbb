// Package doctor runs environment diagnostics for the suggestion engine.
package doctor

import (
	"context"
	"fmt"
	"os"

	appconfig "github.com/doeshing/shai-sense/internal/application/config"
	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	Config    domain.Config
	History   ports.HistoryRepository
	Guard     ports.CommandGuard
	Collector ports.StateCollector
	Shell     ports.ShellIntegrator
	Getenv    func(string) string
}

// Run executes checks and returns a report. Individual failures are reported
// as checks rather than errors.
func (s *Service) Run(ctx context.Context) domain.HealthReport {
	var checks []domain.HealthCheck

	if err := appconfig.Validate(s.Config); err != nil {
		checks = append(checks, fail("Config", err.Error()))
	} else {
		checks = append(checks, ok("Config", fmt.Sprintf("format %s", s.Config.ConfigFormatVersion)))
	}

	checks = append(checks, s.historyCheck())
	checks = append(checks, s.guardCheck())
	checks = append(checks, s.collectorCheck(ctx))
	checks = append(checks, s.shellCheck())
	checks = append(checks, s.apiCheck())

	return domain.HealthReport{Checks: checks}
}

func (s *Service) historyCheck() domain.HealthCheck {
	if s.History == nil {
		return fail("History journal", "not initialized")
	}
	if _, err := s.History.Records(1, ""); err != nil {
		return fail("History journal", err.Error())
	}
	return ok("History journal", s.History.Path())
}

func (s *Service) guardCheck() domain.HealthCheck {
	if s.Guard == nil {
		return warn("Guardrail", "disabled")
	}
	if verdict := s.Guard.Evaluate("ls"); verdict.Blocked {
		return fail("Guardrail", "rules block a harmless command")
	}
	return ok("Guardrail", "rules loaded")
}

func (s *Service) collectorCheck(ctx context.Context) domain.HealthCheck {
	if s.Collector == nil {
		return warn("Terminal state", "collector not initialized")
	}
	state, err := s.Collector.Collect(ctx, "")
	if err != nil {
		return warn("Terminal state", err.Error())
	}
	if state.GitBranch == nil {
		return ok("Terminal state", "no git repository detected")
	}
	return ok("Terminal state", "git branch "+*state.GitBranch)
}

func (s *Service) shellCheck() domain.HealthCheck {
	if s.Shell == nil {
		return warn("Shell integration", "installer not initialized")
	}
	status := s.Shell.Status("")
	switch {
	case status.Error != "":
		return warn("Shell integration", status.Error)
	case status.ScriptExists && status.LinePresent:
		return ok("Shell integration", fmt.Sprintf("%s ready", status.Shell))
	default:
		return warn("Shell integration", "not installed (run: shai-sense install)")
	}
}

func (s *Service) apiCheck() domain.HealthCheck {
	if !s.Config.IsAIEnabled() {
		return ok("AI provider", "disabled")
	}
	model, err := s.Config.GetDefaultModel()
	if err != nil {
		return fail("AI provider", err.Error())
	}
	if model.AuthEnvVar == "" {
		return ok("AI provider", model.Name+" (no key required)")
	}
	if s.getenv(model.AuthEnvVar) == "" {
		return warn("AI provider", model.AuthEnvVar+" missing")
	}
	return ok("AI provider", model.Name)
}

func (s *Service) getenv(key string) string {
	if s.Getenv != nil {
		return s.Getenv(key)
	}
	return os.Getenv(key)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
