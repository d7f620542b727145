package model

// Predictor is the opaque-classifier contract: features in, 0/1 labels out.
// Fairness evaluation and the dominance filter depend on nothing else.
type Predictor interface {
	Predict(X [][]float64) []float64
}

// Model is a generic supervised learning interface.
type Model interface {
	Predictor
	Fit(X [][]float64, y []float64) error
}

// WeightedModel can additionally fit with a non-negative weight per sample.
// The constrained grid search requires this capability of its base learner.
type WeightedModel interface {
	Model
	FitWeighted(X [][]float64, y, sampleWeight []float64) error
}

// Classifier optionally exposes probabilities.
type Classifier interface {
	Model
	PredictProba(X [][]float64) []float64 // returns p(y=1) for binary classifiers
}
