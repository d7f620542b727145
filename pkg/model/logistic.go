package model

import (
	"encoding/json"
	"errors"
	"math/rand"
	"runtime"
	"sync"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/nn"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/optim"
)

// LogisticRegression (binary) with sigmoid.
// This struct holds the model parameters and hyperparameters for training.
type LogisticRegression struct {
	W         []float64 `json:"weights"`
	B         float64   `json:"bias"`
	Lr        float64   `json:"-"`
	Epochs    int       `json:"-"`
	BatchSize int       `json:"-"`
}

// NewLogisticRegression initializes a new Logistic Regression model.
// Initial weights get small random values to break symmetry.
func NewLogisticRegression(nFeatures int, lr float64, epochs int, batchSize int) *LogisticRegression {
	w := make([]float64, nFeatures)
	for i := range w {
		w[i] = rand.NormFloat64() * 0.01
	}
	return &LogisticRegression{
		W:         w,
		B:         0.0,
		Lr:        lr,
		Epochs:    epochs,
		BatchSize: batchSize,
	}
}

// PredictProba returns the probability scores (between 0 and 1) for each input row in X.
// Rows are split across GOMAXPROCS workers.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := start + rowsPerWorker
		if end > len(X) {
			end = len(X)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				row := X[i]
				sum := m.B
				for j, v := range row {
					sum += m.W[j] * v
				}
				out[i] = nn.Sigmoid(sum)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict returns the class labels (0 or 1) based on a 0.5 probability threshold.
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	proba := m.PredictProba(X)
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}

// Fit trains the model with uniform sample weights.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	w := make([]float64, len(y))
	for i := range w {
		w[i] = 1
	}
	return m.FitWeighted(X, y, w)
}

// FitWeighted trains the model using mini-batch gradient descent on the
// weighted binary cross-entropy loss. Samples with larger weights pull the
// decision boundary harder; zero-weight samples are inert.
func (m *LogisticRegression) FitWeighted(X [][]float64, y, sampleWeight []float64) error {
	if len(X) == 0 {
		return errors.New("fit on empty dataset")
	}
	if len(X) != len(y) || len(y) != len(sampleWeight) {
		return errors.New("X, y and sampleWeight length mismatch")
	}
	if len(m.W) != len(X[0]) {
		return errors.New("feature count mismatch between model and data")
	}

	opt := optim.NewSGD(m.Lr)
	batch := m.BatchSize
	if batch <= 0 || batch > len(X) {
		batch = len(X)
	}

	for ep := 0; ep < m.Epochs; ep++ {
		for start := 0; start < len(X); start += batch {
			end := start + batch
			if end > len(X) {
				end = len(X)
			}
			bX, bY, bW := X[start:end], y[start:end], sampleWeight[start:end]

			// Forward pass.
			p := m.PredictProba(bX)
			_, dy := nn.WeightedBCE(bY, p, bW)

			gW := make([]float64, len(m.W))
			gb := 0.0
			for i, row := range bX {
				d := dy[i]
				for j, xij := range row {
					gW[j] += d * xij
				}
				gb += d
			}

			opt.Step(m.W, gW)
			m.B -= m.Lr * gb
		}
	}
	return nil
}

// MarshalBinary serializes the learned parameters for registration.
func (m *LogisticRegression) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalBinary restores parameters produced by MarshalBinary.
func (m *LogisticRegression) UnmarshalBinary(blob []byte) error {
	return json.Unmarshal(blob, m)
}
