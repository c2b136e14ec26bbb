package analyzer

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/shai-sense/internal/domain"
)

// order fixes both the merge order and the tie-break between equal confidences.
var order = []Func{Sequential, ErrorRecovery, Contextual, Workflow}

// Aggregate runs every analyzer over the same input and returns at most max
// suggestions, highest confidence first. Duplicate payloads keep their
// highest-confidence copy.
func Aggregate(ctx context.Context, in Input, max int) ([]domain.Suggestion, error) {
	if max <= 0 {
		return []domain.Suggestion{}, nil
	}

	results := make([][]domain.Suggestion, len(order))
	g, gctx := errgroup.WithContext(ctx)
	for i, fn := range order {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fn(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeFunc(max, in.Keep, results...), nil
}

// Merge concatenates groups in the given order, stable-sorts by confidence,
// keeps the best-ranked copy of each payload and truncates to max.
func Merge(max int, groups ...[]domain.Suggestion) []domain.Suggestion {
	return MergeFunc(max, nil, groups...)
}

// MergeFunc is Merge with a filter applied before truncation. A nil keep
// accepts everything.
func MergeFunc(max int, keep func(domain.Suggestion) bool, groups ...[]domain.Suggestion) []domain.Suggestion {
	var all []domain.Suggestion
	for _, group := range groups {
		all = append(all, group...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Confidence > all[j].Confidence
	})

	seen := make(map[string]struct{}, len(all))
	merged := make([]domain.Suggestion, 0, len(all))
	for _, s := range all {
		if len(merged) == max {
			break
		}
		key := s.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if keep != nil && !keep(s) {
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
