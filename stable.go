package groupjoin

import (
	"cmp"
	"slices"
)

// StableSortJoin computes the same result as JoinPairs by argsorting each
// side stably by label and walking the two sorted orders in step, emitting
// the row-major cross product of every pair of equal-label runs.
//
// It runs in O(n log n) and exists as the reference the counting-sort join
// is checked against.
func StableSortJoin[T Label](left, right []T, maxGroup int) (*IndexPairs, error) {
	if maxGroup <= 0 {
		return nil, invalidMaxGroup(maxGroup)
	}
	if _, err := countGroups(left, maxGroup, SideLeft); err != nil {
		return nil, err
	}
	if _, err := countGroups(right, maxGroup, SideRight); err != nil {
		return nil, err
	}

	lo := stableArgsort(left)
	ro := stableArgsort(right)

	pairs := &IndexPairs{Left: []int{}, Right: []int{}}
	i, j := 0, 0
	for i < len(lo) && j < len(ro) {
		lv, rv := left[lo[i]], right[ro[j]]
		switch {
		case lv < rv:
			i++
		case lv > rv:
			j++
		default:
			iEnd := i
			for iEnd < len(lo) && left[lo[iEnd]] == lv {
				iEnd++
			}
			jEnd := j
			for jEnd < len(ro) && right[ro[jEnd]] == rv {
				jEnd++
			}
			for _, l := range lo[i:iEnd] {
				for _, r := range ro[j:jEnd] {
					pairs.Left = append(pairs.Left, l)
					pairs.Right = append(pairs.Right, r)
				}
			}
			i, j = iEnd, jEnd
		}
	}
	return pairs, nil
}

// stableArgsort returns the positions of seq ordered by value, ties kept in
// input order.
func stableArgsort[T Label](seq []T) []int {
	order := make([]int, len(seq))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(seq[a], seq[b])
	})
	return order
}
