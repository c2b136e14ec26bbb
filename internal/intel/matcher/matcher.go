// Package matcher finds the closest known command for an unrecognised token
// using Levenshtein distance.
package matcher

// Pruning and acceptance bounds. The length bound is deliberately looser than
// the distance bound; changing it alters which candidates are reachable.
const (
	MaxLengthDelta = 3
	MaxDistance    = 2
)

// Match is the closest accepted candidate.
type Match struct {
	Command  string
	Distance int
}

// Matcher searches a fixed, ordered candidate list. It holds no mutable state
// and is safe for concurrent use.
type Matcher struct {
	names []string
	runes [][]rune
}

// New builds a matcher over candidates. Order matters: on equal distance the
// earlier candidate wins.
func New(candidates []string) *Matcher {
	m := &Matcher{
		names: make([]string, len(candidates)),
		runes: make([][]rune, len(candidates)),
	}
	for i, c := range candidates {
		m.names[i] = c
		m.runes[i] = []rune(c)
	}
	return m
}

// Match returns the best candidate within MaxDistance, or false.
func (m *Matcher) Match(token string) (Match, bool) {
	tok := []rune(token)
	if len(tok) == 0 {
		return Match{}, false
	}

	// Rows are sized by the token and reused for every candidate.
	prev := make([]int, len(tok)+1)
	curr := make([]int, len(tok)+1)

	best := Match{Distance: -1}
	for i, cand := range m.runes {
		if abs(len(cand)-len(tok)) > MaxLengthDelta {
			continue
		}
		d := distance(cand, tok, prev, curr)
		if d > MaxDistance {
			continue
		}
		if best.Distance == -1 || d < best.Distance {
			best = Match{Command: m.names[i], Distance: d}
			if d == 0 {
				break
			}
		}
	}
	if best.Distance == -1 {
		return Match{}, false
	}
	return best, true
}

// Confidence maps an accepted distance to a suggestion confidence.
func Confidence(distance int) float64 {
	switch distance {
	case 1:
		return 0.9
	case 2:
		return 0.7
	default:
		return 0.5
	}
}

// Distance computes the Levenshtein distance between a and b over runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	return distance(ra, rb, prev, curr)
}

// distance runs the two-row DP with outer loop over a and rows indexed by b.
// prev and curr must have length len(b)+1.
func distance(a, b []rune, prev, curr []int) int {
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
