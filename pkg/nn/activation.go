package nn

import "math"

func Sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

func SigmoidPrime(x float64) float64 { s := Sigmoid(x); return s * (1 - s) }
