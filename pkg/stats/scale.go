package stats

// StandardScaler standardizes each column to zero mean and unit variance.
// Fit on training data, then Transform both splits with the same parameters.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64, _ []float64) {
	if len(X) == 0 {
		return
	}
	r, c := len(X), len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X[i][j]
		}
		s.Mean[j] = Mean(col)
		s.Std[j] = Std(col)
		if s.Std[j] == 0 {
			s.Std[j] = 1 // constant column, center only
		}
	}
	s.fit = true
}

func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	if !s.fit {
		return X
	}
	r, c := len(X), len(X[0])
	Y := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = (X[i][j] - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y
}
