package optim

// SGD is a plain stochastic gradient descent optimizer.
type SGD struct{ LearningRate float64 }

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

// Step updates weights in place from the accumulated gradients.
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * grads[i]
	}
}
