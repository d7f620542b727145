package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/fairness"
)

func TestPlotSelectionRates(t *testing.T) {
	s := &fairness.Summary{
		Overall: 0.3,
		ByGroup: map[string]float64{"Over 50": 0.42, "50 or younger": 0.18},
	}
	path := filepath.Join(t.TempDir(), "rates.png")
	require.NoError(t, PlotSelectionRates(s, "Selection rate by age group", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotFrontier(t *testing.T) {
	results := []fairness.Result{
		{Error: 0.30, Disparity: 0.10},
		{Error: 0.35, Disparity: 0.05},
		{Error: 0.25, Disparity: 0.20},
	}
	path := filepath.Join(t.TempDir(), "frontier.png")
	require.NoError(t, PlotFrontier(results, fairness.DominanceFilter(results), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotFrontier_AllRetained(t *testing.T) {
	results := []fairness.Result{{Error: 0.1, Disparity: 0.1}}
	path := filepath.Join(t.TempDir(), "single.png")
	assert.NoError(t, PlotFrontier(results, []int{0}, path))
}
