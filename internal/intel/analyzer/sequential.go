package analyzer

import (
	"math"

	"github.com/doeshing/shai-sense/internal/domain"
)

const (
	sequentialMinCount = 2
	sequentialMaxConf  = 0.9
	sequentialReason   = "Often follows this command"
)

// Sequential suggests commands that have followed the last command at least
// twice, scoring min(count/10, 0.9).
func Sequential(in Input) []domain.Suggestion {
	last := commandClass(in.lastCommand())
	if last == "" || len(in.History) < 2 {
		return nil
	}

	followers := newCounter()
	for i := 0; i+1 < len(in.History); i++ {
		if commandClass(in.History[i].Command) != last {
			continue
		}
		if next := commandClass(in.History[i+1].Command); next != "" {
			followers.add(next)
		}
	}

	var out []domain.Suggestion
	for _, kc := range followers.ranked(sequentialMinCount) {
		conf := math.Min(float64(kc.count)/10, sequentialMaxConf)
		out = append(out, domain.NewSuggestion(domain.SuggestionRunCommand, kc.key, conf, sequentialReason, domain.SourceSequential))
	}
	return out
}
