package data

import "math/rand"

// Split holds a train/test partition with the sensitive attribute carried
// alongside both halves.
type Split struct {
	XTrain, XTest           [][]float64
	YTrain, YTest           []float64
	GroupsTrain, GroupsTest []string
}

// TrainTestSplit shuffles the dataset with the given seed and carves off
// testRatio of the rows as the test set.
func TrainTestSplit(ds *Dataset, testRatio float64, seed int64) *Split {
	n := ds.Len()
	groups := ds.Groups()
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)
	nTest := int(float64(n) * testRatio)

	s := &Split{}
	for i := 0; i < n; i++ {
		idx := indices[i]
		if i < nTest {
			s.XTest = append(s.XTest, ds.X[idx])
			s.YTest = append(s.YTest, ds.Y[idx])
			s.GroupsTest = append(s.GroupsTest, groups[idx])
		} else {
			s.XTrain = append(s.XTrain, ds.X[idx])
			s.YTrain = append(s.YTrain, ds.Y[idx])
			s.GroupsTrain = append(s.GroupsTrain, groups[idx])
		}
	}
	return s
}
