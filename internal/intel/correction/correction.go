// Package correction turns a mistyped command line into a corrected one.
package correction

import (
	"strings"
	"unicode"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/intel/dictionary"
	"github.com/doeshing/shai-sense/internal/intel/matcher"
)

const (
	// TypoConfidence is assigned to exact misspelling-table hits.
	TypoConfidence = 0.95
	// AutoCorrectThreshold is the minimum confidence applied without asking.
	AutoCorrectThreshold = 0.8

	ReasonTypo       = "Common typo"
	ReasonDidYouMean = "Did you mean?"
)

// Correction is a proposed replacement for a command line.
type Correction struct {
	Original   string
	Corrected  string
	Confidence float64
	Reason     string
	// Distance is zero for misspelling-table hits.
	Distance int
}

// Suggestion converts the correction into a ranked suggestion.
func (c Correction) Suggestion() domain.Suggestion {
	return domain.NewSuggestion(domain.SuggestionCorrection, c.Corrected, c.Confidence, c.Reason, domain.SourceTypo)
}

// Service corrects command lines against a dictionary. It is a pure function
// of the dictionary and its input.
type Service struct {
	dict    *dictionary.Dictionary
	matcher *matcher.Matcher
}

// NewService builds a correction service.
func NewService(dict *dictionary.Dictionary) *Service {
	return &Service{
		dict:    dict,
		matcher: matcher.New(dict.Commands()),
	}
}

// SuggestCorrection proposes a correction for raw, or reports false when the
// input is empty, already valid or too far from any known command.
func (s *Service) SuggestCorrection(raw string) (Correction, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Correction{}, false
	}

	token, tail := splitToken(line)

	if canonical, ok := s.dict.Typo(token); ok {
		return Correction{
			Original:   line,
			Corrected:  canonical + tail,
			Confidence: TypoConfidence,
			Reason:     ReasonTypo,
		}, true
	}

	if s.dict.Contains(token) {
		return Correction{}, false
	}

	match, ok := s.matcher.Match(token)
	if !ok {
		return Correction{}, false
	}
	return Correction{
		Original:   line,
		Corrected:  match.Command + tail,
		Confidence: matcher.Confidence(match.Distance),
		Reason:     ReasonDidYouMean,
		Distance:   match.Distance,
	}, true
}

// AutoCorrect returns the corrected line when the correction is confident
// enough, and raw unchanged otherwise.
func (s *Service) AutoCorrect(raw string) string {
	c, ok := s.SuggestCorrection(raw)
	if !ok || c.Confidence < AutoCorrectThreshold {
		return raw
	}
	return c.Corrected
}

// splitToken returns the first whitespace-delimited word and the rest of the
// line verbatim, including its leading whitespace.
func splitToken(line string) (string, string) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx:]
}
