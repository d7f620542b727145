package fairness

import (
	"fmt"
	"sort"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/model"
)

// Candidate is one fitted predictor out of the constrained sweep, tagged
// with the Lagrange multiplier that produced it.
type Candidate struct {
	Model  model.Predictor
	Lambda float64
}

// GridSearch sweeps the Lagrangian relaxation of a demographic-parity
// constraint over a binary sensitive feature. Each grid point relaxes the
// constraint with a fixed multiplier, reduces the problem to cost-sensitive
// reweighting, and fits a fresh base learner on the reweighted data.
type GridSearch struct {
	// NewEstimator builds an untrained base learner for one grid point.
	NewEstimator func() model.WeightedModel
	// GridSize is the number of multiplier values swept.
	GridSize int
	// GridLimit bounds the multiplier: lambda ranges over [-GridLimit, GridLimit].
	GridLimit float64
}

// Fit trains one candidate per grid point and returns them in grid order
// (ascending lambda). groups must contain exactly two distinct values.
func (g *GridSearch) Fit(X [][]float64, y []float64, groups []string) ([]Candidate, error) {
	if g.NewEstimator == nil {
		return nil, fmt.Errorf("fairness: grid search needs a base learner factory")
	}
	if g.GridSize < 1 {
		return nil, fmt.Errorf("fairness: grid size %d < 1", g.GridSize)
	}
	if g.GridLimit <= 0 {
		return nil, fmt.Errorf("fairness: grid limit %v <= 0", g.GridLimit)
	}
	if len(X) != len(y) || len(y) != len(groups) {
		return nil, fmt.Errorf("fairness: length mismatch: X=%d y=%d groups=%d", len(X), len(y), len(groups))
	}

	focal, pFocal, err := focalGroup(groups)
	if err != nil {
		return nil, err
	}

	cands := make([]Candidate, 0, g.GridSize)
	for k := 0; k < g.GridSize; k++ {
		lambda := 0.0
		if g.GridSize > 1 {
			lambda = -g.GridLimit + 2*g.GridLimit*float64(k)/float64(g.GridSize-1)
		}

		redY, redW := reduceWeights(y, groups, focal, pFocal, lambda)
		est := g.NewEstimator()
		if err := est.FitWeighted(X, redY, redW); err != nil {
			return nil, fmt.Errorf("fairness: fit grid point %d (lambda=%v): %w", k, lambda, err)
		}
		cands = append(cands, Candidate{Model: est, Lambda: lambda})
	}
	return cands, nil
}

// focalGroup picks the lexicographically first of the two groups as the one
// the multiplier acts on, and returns its sample fraction.
func focalGroup(groups []string) (string, float64, error) {
	counts := map[string]int{}
	for _, g := range groups {
		counts[g]++
	}
	if len(counts) != 2 {
		return "", 0, fmt.Errorf("fairness: demographic parity needs exactly 2 groups, got %d", len(counts))
	}
	names := make([]string, 0, 2)
	for g := range counts {
		names = append(names, g)
	}
	sort.Strings(names)
	focal := names[0]
	return focal, float64(counts[focal]) / float64(len(groups)), nil
}

// reduceWeights turns the relaxed constrained problem into a weighted
// binary problem. The objective contributes 2y-1 per sample; the parity
// constraint contributes lambda/p for focal-group samples minus lambda for
// everyone. The sign of the total picks the reduced label, its magnitude
// the sample weight. lambda = 0 reproduces the unconstrained problem.
func reduceWeights(y []float64, groups []string, focal string, pFocal, lambda float64) (redY, redW []float64) {
	redY = make([]float64, len(y))
	redW = make([]float64, len(y))
	for i := range y {
		signed := 2*y[i] - 1 - lambda
		if groups[i] == focal {
			signed += lambda / pFocal
		}
		if signed > 0 {
			redY[i] = 1
		}
		if signed < 0 {
			redW[i] = -signed
		} else {
			redW[i] = signed
		}
	}
	return redY, redW
}

// Result ties a candidate to its two tracked scores, both lower-is-better.
type Result struct {
	Model     model.Predictor
	Error     float64
	Disparity float64
}

// Evaluate scores every candidate on held-out data: misclassification rate
// and demographic-parity difference over the sensitive groups.
func Evaluate(cands []Candidate, X [][]float64, y []float64, groups []string) ([]Result, error) {
	results := make([]Result, 0, len(cands))
	for i, c := range cands {
		pred := c.Model.Predict(X)
		disp, err := DemographicParityDifference(pred, groups)
		if err != nil {
			return nil, fmt.Errorf("fairness: evaluate candidate %d: %w", i, err)
		}
		results = append(results, Result{
			Model:     c.Model,
			Error:     model.ErrorRate(y, pred),
			Disparity: disp,
		})
	}
	return results, nil
}
