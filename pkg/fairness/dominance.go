package fairness

// DominanceFilter returns the indices (ascending) of the Pareto-efficient
// results. Index i survives iff its error equals the minimum error among
// all results whose disparity does not exceed result i's disparity. Every
// result's comparison set includes itself, so the globally minimum-error
// result always survives and the frontier is never empty. Ties in disparity
// keep every result matching the shared minimum error. Quadratic in the
// number of results, which is the grid size.
func DominanceFilter(results []Result) []int {
	var keep []int
	for i := range results {
		minErr := results[i].Error
		for j := range results {
			if results[j].Disparity <= results[i].Disparity && results[j].Error < minErr {
				minErr = results[j].Error
			}
		}
		if results[i].Error <= minErr {
			keep = append(keep, i)
		}
	}
	return keep
}

// Dominant returns the retained results themselves, in input order.
func Dominant(results []Result) []Result {
	idx := DominanceFilter(results)
	out := make([]Result, 0, len(idx))
	for _, i := range idx {
		out = append(out, results[i])
	}
	return out
}
