package groupjoin

// Factorize maps arbitrary join keys onto dense group labels shared by both
// sides. Labels are assigned in order of first appearance, scanning left and
// then right, so the result can be passed straight to Join with the returned
// maxGroup.
//
// maxGroup is at least 1 so that two empty inputs still form a valid join.
func Factorize[K comparable](left, right []K) (lg, rg []int, maxGroup int) {
	ids := make(map[K]int, len(left))
	label := func(k K) int {
		id, ok := ids[k]
		if !ok {
			id = len(ids)
			ids[k] = id
		}
		return id
	}

	lg = make([]int, len(left))
	for i, k := range left {
		lg[i] = label(k)
	}
	rg = make([]int, len(right))
	for i, k := range right {
		rg[i] = label(k)
	}
	return lg, rg, max(len(ids), 1)
}
