package model

// Classification metrics (binary, labels 0/1 encoded as float64).

func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ErrorRate is 1 - Accuracy; lower is better.
func ErrorRate(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	return 1 - Accuracy(yTrue, yPred)
}

// SelectionRate is the fraction of samples predicted positive. yTrue is
// accepted so the function fits the common (yTrue, yPred) metric shape but
// it plays no part in the value.
func SelectionRate(_, yPred []float64) float64 {
	if len(yPred) == 0 {
		return 0
	}
	c := 0
	for _, p := range yPred {
		if p == 1 {
			c++
		}
	}
	return float64(c) / float64(len(yPred))
}

func PrecisionRecallF1(yTrue, yPred []float64) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		if yPred[i] == 1 && yTrue[i] == 1 {
			tp++
		}
		if yPred[i] == 1 && yTrue[i] == 0 {
			fp++
		}
		if yPred[i] == 0 && yTrue[i] == 1 {
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// Recall is the true-positive rate.
func Recall(yTrue, yPred []float64) float64 {
	_, rec, _ := PrecisionRecallF1(yTrue, yPred)
	return rec
}

func BinaryPredFromProba(proba []float64, threshold float64) []float64 {
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}
