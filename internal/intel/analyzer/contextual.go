package analyzer

import (
	"math"
	"strings"

	"github.com/doeshing/shai-sense/internal/domain"
)

const (
	contextualMinCount = 3
	contextualMaxConf  = 0.85
	contextualReason   = "Commonly used in this directory"
)

// Contextual suggests commands run at least three times in the current
// directory, scoring min(count/20, 0.85).
func Contextual(in Input) []domain.Suggestion {
	dir := in.Context.CurrentDir
	if dir == "" {
		return nil
	}

	used := newCounter()
	for _, e := range in.History {
		if e.WorkingDir != dir {
			continue
		}
		if cmd := strings.TrimSpace(e.Command); cmd != "" {
			used.add(cmd)
		}
	}

	var out []domain.Suggestion
	for _, kc := range used.ranked(contextualMinCount) {
		conf := math.Min(float64(kc.count)/20, contextualMaxConf)
		out = append(out, domain.NewSuggestion(domain.SuggestionRunCommand, kc.key, conf, contextualReason, domain.SourceContextual))
	}
	return out
}
