package nn

import "math"

// BCE computes binary cross-entropy loss and its gradient.
// Use this loss when predicting probabilities for two classes (binary classification).
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred[i], 1e-12), 1-1e-12)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (p - y) / float64(n)
	}
	return s / float64(n), grad
}

// WeightedBCE is BCE with a non-negative weight per sample. The loss and
// gradient are normalized by the total weight, so uniform weights of any
// scale reproduce plain BCE.
func WeightedBCE(yTrue, yPred, w []float64) (float64, []float64) {
	n := len(yTrue)
	grad := make([]float64, n)

	totalW := 0.0
	for _, wi := range w {
		totalW += wi
	}
	if totalW == 0 {
		return 0, grad
	}

	s := 0.0
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred[i], 1e-12), 1-1e-12)
		y := yTrue[i]
		s += -w[i] * (y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = w[i] * (p - y) / totalW
	}
	return s / totalW, grad
}
