// Package fairness evaluates binary classifiers across a sensitive
// attribute: group metric summaries, demographic-parity disparity, a
// constrained grid search over a base learner, and Pareto-dominance
// filtering of the resulting candidates.
package fairness

import (
	"errors"
	"fmt"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/model"
)

// ErrEmptyGroup reports a group with no samples after filtering. Group
// aggregation never guesses a value for an empty group.
var ErrEmptyGroup = errors.New("fairness: empty group")

// MetricFunc is any scalar metric over true and predicted labels.
type MetricFunc func(yTrue, yPred []float64) float64

// Summary holds a metric evaluated overall and per sensitive group.
type Summary struct {
	Overall float64
	ByGroup map[string]float64
}

// GroupSummary evaluates metric on all samples and on each group. The
// per-sample groups partition the data exhaustively by construction. Any
// group named in expect that ends up with zero samples is an error.
func GroupSummary(metric MetricFunc, yTrue, yPred []float64, groups []string, expect ...string) (*Summary, error) {
	if len(yTrue) != len(yPred) || len(yPred) != len(groups) {
		return nil, fmt.Errorf("fairness: length mismatch: yTrue=%d yPred=%d groups=%d",
			len(yTrue), len(yPred), len(groups))
	}
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrEmptyGroup)
	}

	byTrue := map[string][]float64{}
	byPred := map[string][]float64{}
	for i, g := range groups {
		byTrue[g] = append(byTrue[g], yTrue[i])
		byPred[g] = append(byPred[g], yPred[i])
	}
	for _, g := range expect {
		if len(byTrue[g]) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyGroup, g)
		}
	}

	s := &Summary{
		Overall: metric(yTrue, yPred),
		ByGroup: make(map[string]float64, len(byTrue)),
	}
	for g := range byTrue {
		s.ByGroup[g] = metric(byTrue[g], byPred[g])
	}
	return s, nil
}

// Difference is the spread (max - min) of the metric across groups.
func (s *Summary) Difference() float64 {
	first := true
	var lo, hi float64
	for _, v := range s.ByGroup {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

// DemographicParityDifference is the selection-rate spread across groups:
// zero means every group is selected at the same rate.
func DemographicParityDifference(yPred []float64, groups []string) (float64, error) {
	s, err := GroupSummary(model.SelectionRate, yPred, yPred, groups)
	if err != nil {
		return 0, err
	}
	return s.Difference(), nil
}
