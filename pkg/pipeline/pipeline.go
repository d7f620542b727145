package pipeline

// Transformer is a fit/transform preprocessing step.
type Transformer interface {
	Fit(X [][]float64, Y []float64)
	Transform(X [][]float64) [][]float64
}

// Pipeline chains multiple transformers. Fit runs each step on the output of
// the previous one; Transform replays the fitted chain.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

func (p *Pipeline) Fit(X [][]float64, Y []float64) {
	for _, step := range p.steps {
		step.Fit(X, Y)
		X = step.Transform(X)
	}
}

func (p *Pipeline) Transform(X [][]float64) [][]float64 {
	for _, step := range p.steps {
		X = step.Transform(X)
	}
	return X
}

// FitTransform fits the chain and returns the transformed training matrix.
func (p *Pipeline) FitTransform(X [][]float64, Y []float64) [][]float64 {
	p.Fit(X, Y)
	return p.Transform(X)
}
