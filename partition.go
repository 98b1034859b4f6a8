package groupjoin

// Buckets is the stable counting-sort partition of one join input.
//
// Positions holds every original position of the input, grouped by label:
// the positions carrying label g occupy Positions[Offsets[g]:Offsets[g+1]]
// and appear there in increasing original order.
type Buckets struct {
	Counts    []int // occurrences per label, len maxGroup
	Offsets   []int // exclusive prefix sum of Counts, len maxGroup+1
	Positions []int // bucket buffer, len of the input
}

// MaxGroup returns the size of the label space
func (b *Buckets) MaxGroup() int {
	return len(b.Counts)
}

// Len returns the length of the partitioned input
func (b *Buckets) Len() int {
	return len(b.Positions)
}

// Group returns the original positions carrying label g, in input order
func (b *Buckets) Group(g int) []int {
	return b.Positions[b.Offsets[g]:b.Offsets[g+1]]
}

// Partition buckets seq by label.
func Partition[T Label](seq []T, maxGroup int) (*Buckets, error) {
	if maxGroup <= 0 {
		return nil, invalidMaxGroup(maxGroup)
	}
	return partition(seq, maxGroup, SideUnknown)
}

func partition[T Label](seq []T, maxGroup int, side Side) (*Buckets, error) {
	counts, err := countGroups(seq, maxGroup, side)
	if err != nil {
		return nil, err
	}
	offsets, err := prefixSum(counts)
	if err != nil {
		return nil, err
	}

	cursor, err := getIntSlice(maxGroup)
	if err != nil {
		return nil, err
	}
	defer cursor.Release()
	copy(cursor.Data, offsets[:maxGroup])

	// Scanning in input order while each cursor only advances keeps the
	// positions of a label in increasing order.
	positions := make([]int, len(seq))
	for i, v := range seq {
		g := int(v)
		positions[cursor.Data[g]] = i
		cursor.Data[g]++
	}

	return &Buckets{
		Counts:    counts,
		Offsets:   offsets,
		Positions: positions,
	}, nil
}
