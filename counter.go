package groupjoin

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Label is the element type of a group-label sequence. Any integer type is
// accepted; values must lie in [0, maxGroup).
type Label interface {
	constraints.Integer
}

// labelIndex returns v as a bucket index, or false if v is outside [0, maxGroup).
func labelIndex[T Label](v T, maxGroup int) (int, bool) {
	if v < 0 || uint64(v) >= uint64(maxGroup) {
		return 0, false
	}
	return int(v), true
}

// labelValue widens v for error reports; uint64 values past MaxInt64 saturate.
func labelValue[T Label](v T) int64 {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// CountGroups returns the number of occurrences of each label in seq.
// The result has length maxGroup and sums to len(seq).
func CountGroups[T Label](seq []T, maxGroup int) ([]int, error) {
	if maxGroup <= 0 {
		return nil, invalidMaxGroup(maxGroup)
	}
	return countGroups(seq, maxGroup, SideUnknown)
}

// countGroups validates labels as it counts; the first bad label aborts.
func countGroups[T Label](seq []T, maxGroup int, side Side) ([]int, error) {
	counts, err := allocIndices("label counts", maxGroup)
	if err != nil {
		return nil, err
	}
	for i, v := range seq {
		g, ok := labelIndex(v, maxGroup)
		if !ok {
			return nil, &LabelError{
				Side:     side,
				Position: i,
				Value:    labelValue(v),
				MaxGroup: maxGroup,
			}
		}
		counts[g]++
	}
	return counts, nil
}

// prefixSum returns the exclusive prefix sum of counts, with one trailing
// entry holding the total.
func prefixSum(counts []int) ([]int, error) {
	offsets, err := allocIndices("label offsets", len(counts)+1)
	if err != nil {
		return nil, err
	}
	total := 0
	for g, c := range counts {
		offsets[g] = total
		total += c
	}
	offsets[len(counts)] = total
	return offsets, nil
}
