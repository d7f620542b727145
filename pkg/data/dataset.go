package data

import "fmt"

// Column names of the diabetes clinical dataset. Diabetic is the binary
// label; Age additionally feeds the sensitive-attribute derivation.
var FeatureColumns = []string{
	"Pregnancies",
	"PlasmaGlucose",
	"DiastolicBloodPressure",
	"TricepsThickness",
	"SerumInsulin",
	"BMI",
	"DiabetesPedigree",
	"Age",
}

const (
	LabelColumn = "Diabetic"
	AgeColumn   = "Age"
)

// Dataset is an in-memory tabular dataset. Age is kept in its own slice so
// the sensitive attribute stays available after Age is dropped from the
// feature matrix.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []float64
	Age      []float64
}

func (d *Dataset) Len() int { return len(d.Y) }

// WithoutFeature returns a copy of the dataset with the named column
// removed from the feature matrix. The receiver is untouched, so the same
// load can feed models trained with and without the column.
func (d *Dataset) WithoutFeature(name string) (*Dataset, error) {
	idx := -1
	for i, f := range d.Features {
		if f == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("feature %q not in dataset", name)
	}

	out := &Dataset{
		Features: make([]string, 0, len(d.Features)-1),
		X:        make([][]float64, len(d.X)),
		Y:        d.Y,
		Age:      d.Age,
	}
	out.Features = append(out.Features, d.Features[:idx]...)
	out.Features = append(out.Features, d.Features[idx+1:]...)
	for i, row := range d.X {
		nr := make([]float64, 0, len(row)-1)
		nr = append(nr, row[:idx]...)
		nr = append(nr, row[idx+1:]...)
		out.X[i] = nr
	}
	return out, nil
}

// Groups derives the sensitive attribute for every row.
func (d *Dataset) Groups() []string {
	return AgeGroups(d.Age)
}
