package domain

// RiskLevel grades how destructive a command is.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Severity orders levels; unknown levels rank as safe.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// RiskAssessment is the guardrail verdict for one command.
type RiskAssessment struct {
	Level   RiskLevel
	Blocked bool
	Reasons []string
}
