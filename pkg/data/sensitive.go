package data

// Age buckets used as the sensitive attribute. The bucket partitions
// evaluation only; it is never required to be a model input.
const (
	GroupOver50    = "Over 50"
	GroupUnder50   = "50 or younger"
	ageGroupCutoff = 50
)

// AgeGroup buckets a single age. Exactly two buckets, split strictly
// above 50.
func AgeGroup(age float64) string {
	if age > ageGroupCutoff {
		return GroupOver50
	}
	return GroupUnder50
}

// AgeGroups buckets a column of ages.
func AgeGroups(ages []float64) []string {
	out := make([]string, len(ages))
	for i, a := range ages {
		out[i] = AgeGroup(a)
	}
	return out
}
