package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/model"
)

// recordingModel captures the reduced labels and weights it was fitted with
// and predicts a fixed answer.
type recordingModel struct {
	y, w []float64
	out  float64
}

func (m *recordingModel) Fit(X [][]float64, y []float64) error {
	w := make([]float64, len(y))
	for i := range w {
		w[i] = 1
	}
	return m.FitWeighted(X, y, w)
}

func (m *recordingModel) FitWeighted(_ [][]float64, y, w []float64) error {
	m.y = append([]float64(nil), y...)
	m.w = append([]float64(nil), w...)
	return nil
}

func (m *recordingModel) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range out {
		out[i] = m.out
	}
	return out
}

func gridFixture() ([][]float64, []float64, []string) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 1, 0, 0}
	groups := []string{"a", "b", "a", "b"}
	return X, y, groups
}

func TestGridSearch_OneCandidatePerGridPoint(t *testing.T) {
	X, y, groups := gridFixture()
	g := GridSearch{
		NewEstimator: func() model.WeightedModel { return &recordingModel{} },
		GridSize:     5,
		GridLimit:    2,
	}

	cands, err := g.Fit(X, y, groups)
	require.NoError(t, err)
	require.Len(t, cands, 5)

	lambdas := make([]float64, len(cands))
	for i, c := range cands {
		lambdas[i] = c.Lambda
	}
	assert.Equal(t, []float64{-2, -1, 0, 1, 2}, lambdas)
}

func TestGridSearch_ZeroLambdaReproducesUnconstrainedProblem(t *testing.T) {
	X, y, groups := gridFixture()
	g := GridSearch{
		NewEstimator: func() model.WeightedModel { return &recordingModel{} },
		GridSize:     3,
		GridLimit:    1,
	}

	cands, err := g.Fit(X, y, groups)
	require.NoError(t, err)

	mid := cands[1].Model.(*recordingModel)
	assert.Equal(t, y, mid.y)
	assert.Equal(t, []float64{1, 1, 1, 1}, mid.w)
}

func TestGridSearch_SingleGridPointIsLambdaZero(t *testing.T) {
	X, y, groups := gridFixture()
	g := GridSearch{
		NewEstimator: func() model.WeightedModel { return &recordingModel{} },
		GridSize:     1,
		GridLimit:    2,
	}

	cands, err := g.Fit(X, y, groups)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Zero(t, cands[0].Lambda)
}

func TestGridSearch_RejectsBadInputs(t *testing.T) {
	X, y, groups := gridFixture()
	newEst := func() model.WeightedModel { return &recordingModel{} }

	tests := []struct {
		name string
		g    GridSearch
	}{
		{"no factory", GridSearch{GridSize: 3, GridLimit: 1}},
		{"zero grid size", GridSearch{NewEstimator: newEst, GridSize: 0, GridLimit: 1}},
		{"zero limit", GridSearch{NewEstimator: newEst, GridSize: 3, GridLimit: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.g.Fit(X, y, groups)
			assert.Error(t, err)
		})
	}
}

func TestGridSearch_NeedsExactlyTwoGroups(t *testing.T) {
	g := GridSearch{
		NewEstimator: func() model.WeightedModel { return &recordingModel{} },
		GridSize:     3,
		GridLimit:    1,
	}

	X := [][]float64{{1}, {2}}
	_, err := g.Fit(X, []float64{0, 1}, []string{"a", "a"})
	assert.Error(t, err)

	X3 := [][]float64{{1}, {2}, {3}}
	_, err = g.Fit(X3, []float64{0, 1, 0}, []string{"a", "b", "c"})
	assert.Error(t, err)
}

func TestReduceWeights_ConstraintTerm(t *testing.T) {
	y := []float64{1, 1, 0, 0}
	groups := []string{"a", "b", "a", "b"}

	// focal group "a", pFocal 0.5, lambda 1:
	// (y=1, a): 2y-1 - 1 + 1/0.5 = 2  -> label 1, weight 2
	// (y=1, b): 2y-1 - 1        = 0  -> label 0, weight 0
	// (y=0, a): -1   - 1 + 2    = 0  -> label 0, weight 0
	// (y=0, b): -1   - 1        = -2 -> label 0, weight 2
	redY, redW := reduceWeights(y, groups, "a", 0.5, 1)
	assert.Equal(t, []float64{1, 0, 0, 0}, redY)
	assert.Equal(t, []float64{2, 0, 0, 2}, redW)
}

func TestFocalGroup(t *testing.T) {
	focal, p, err := focalGroup([]string{"b", "a", "b", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a", focal) // lexicographically first
	assert.InDelta(t, 0.25, p, 1e-12)
}

func TestEvaluate_ScoresEachCandidate(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 0, 1, 0}
	groups := []string{"a", "a", "b", "b"}

	cands := []Candidate{
		{Model: &recordingModel{out: 1}}, // predicts all positive
		{Model: &recordingModel{out: 0}}, // predicts all negative
	}

	rs, err := Evaluate(cands, X, y, groups)
	require.NoError(t, err)
	require.Len(t, rs, 2)

	// All-positive: half the labels wrong, equal selection rates.
	assert.InDelta(t, 0.5, rs[0].Error, 1e-12)
	assert.Zero(t, rs[0].Disparity)
	// All-negative: same error, zero disparity.
	assert.InDelta(t, 0.5, rs[1].Error, 1e-12)
	assert.Zero(t, rs[1].Disparity)
}
