package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/intel/correction"
	"github.com/doeshing/shai-sense/internal/intel/trigger"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// renderSuggestions prints a ranked list, one suggestion per line.
func renderSuggestions(out io.Writer, title string, suggestions []domain.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(out, headerStyle.Render(title))
	for i, s := range suggestions {
		fmt.Fprintf(out, "  %d. %s %s\n",
			i+1,
			commandStyle.Render(s.Payload()),
			dimStyle.Render(fmt.Sprintf("(%.0f%% %s, %s)", s.Confidence*100, s.Source, s.Reason)))
	}
}

// renderOutcome prints what a trigger produced.
func renderOutcome(out io.Writer, outcome trigger.Outcome) {
	if !outcome.Fired() || len(outcome.Suggestions) == 0 {
		return
	}
	renderSuggestions(out, "["+outcome.Trigger.String()+"]", outcome.Suggestions)
}

func renderCorrection(out io.Writer, c correction.Correction) {
	fmt.Fprintf(out, "%s %s -> %s %s\n",
		headerStyle.Render("Did you mean:"),
		dimStyle.Render(c.Original),
		commandStyle.Render(c.Corrected),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", c.Confidence*100)))
}

func renderRisk(out io.Writer, risk domain.RiskAssessment) {
	style := warnStyle
	if risk.Blocked {
		style = errorStyle
	}
	fmt.Fprintln(out, style.Render("Risk: "+strings.ToUpper(string(risk.Level))))
	for _, reason := range risk.Reasons {
		fmt.Fprintf(out, " - %s\n", reason)
	}
}

func renderHealth(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		style := okStyle
		switch check.Status {
		case domain.HealthWarn:
			style = warnStyle
		case domain.HealthError:
			style = errorStyle
		}
		fmt.Fprintf(out, "%s %s - %s\n",
			style.Render("["+strings.ToUpper(string(check.Status))+"]"),
			check.Name,
			check.Details)
	}
}
