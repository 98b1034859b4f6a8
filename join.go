package groupjoin

import (
	"golang.org/x/sync/errgroup"
)

// JoinOptions configures join behavior
type JoinOptions struct {
	parallel      *ParallelConfig // nil = global config
	maxOutputRows int             // 0 = unlimited
}

// DefaultJoinOptions returns default join options
func DefaultJoinOptions() JoinOptions {
	return JoinOptions{}
}

// WithParallel sets the parallel configuration for this join only
func (o JoinOptions) WithParallel(cfg *ParallelConfig) JoinOptions {
	o.parallel = cfg
	return o
}

// WithMaxOutputRows caps the number of output rows. A join whose exact
// output size exceeds the cap fails with ErrAllocation before allocating.
func (o JoinOptions) WithMaxOutputRows(n int) JoinOptions {
	o.maxOutputRows = n
	return o
}

func (o JoinOptions) config() *ParallelConfig {
	if o.parallel != nil {
		return o.parallel
	}
	return GetParallelConfig()
}

func resolveJoinOptions(opts []JoinOptions) JoinOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return DefaultJoinOptions()
}

// Join computes the inner join of two group-label sequences.
//
// Row k of the result pairs left position ls[k] with right position rs[k],
// where left[ls[k]] == right[rs[k]]. Rows are ordered by ascending label;
// within a label, by left position (outer) then right position (inner).
// This is the order obtained by stably sorting each side by label and
// taking the row-major cross product of equal-label runs.
//
// Every label of both sequences must lie in [0, maxGroup). On any error no
// output is returned.
func Join[T Label](left, right []T, maxGroup int, opts ...JoinOptions) (ls, rs []int, err error) {
	pairs, err := JoinPairs(left, right, maxGroup, opts...)
	if err != nil {
		return nil, nil, err
	}
	return pairs.Left, pairs.Right, nil
}

// JoinPairs is Join returning the result as IndexPairs.
func JoinPairs[T Label](left, right []T, maxGroup int, opts ...JoinOptions) (*IndexPairs, error) {
	opt := resolveJoinOptions(opts)
	if maxGroup <= 0 {
		return nil, invalidMaxGroup(maxGroup)
	}
	cfg := opt.config()
	log := Logger().WithValues("left", len(left), "right", len(right), "maxGroup", maxGroup)

	lb, rb, err := bucketSides(left, right, maxGroup, cfg)
	if err != nil {
		return nil, err
	}

	total, err := outputSize(lb, rb)
	if err != nil {
		return nil, err
	}
	if opt.maxOutputRows > 0 && total > opt.maxOutputRows {
		return nil, &AllocationError{What: "join output", Rows: total, Limit: opt.maxOutputRows}
	}

	ls, err := allocIndices("left index", total)
	if err != nil {
		return nil, err
	}
	rs, err := allocIndices("right index", total)
	if err != nil {
		return nil, err
	}

	if cfg.shouldParallelize(total) && maxGroup > cfg.morselSize() {
		shards := emitParallel(lb, rb, ls, rs, cfg)
		log.V(1).Info("join emitted", "rows", total, "shards", shards)
	} else {
		emitSequential(lb, rb, ls, rs)
		log.V(1).Info("join emitted", "rows", total)
	}

	return &IndexPairs{Left: ls, Right: rs}, nil
}

// OutputSize returns the exact number of rows Join would produce, without
// materializing them.
func OutputSize[T Label](left, right []T, maxGroup int) (int, error) {
	if maxGroup <= 0 {
		return 0, invalidMaxGroup(maxGroup)
	}
	lc, err := countGroups(left, maxGroup, SideLeft)
	if err != nil {
		return 0, err
	}
	rc, err := countGroups(right, maxGroup, SideRight)
	if err != nil {
		return 0, err
	}
	return outputSize(&Buckets{Counts: lc}, &Buckets{Counts: rc})
}

// bucketSides partitions both inputs. The sides share no state, so large
// inputs are bucketed concurrently. When both sides hold a bad label the
// left side's error is reported.
func bucketSides[T Label](left, right []T, maxGroup int, cfg *ParallelConfig) (*Buckets, *Buckets, error) {
	if !cfg.shouldParallelize(len(left) + len(right)) {
		lb, err := partition(left, maxGroup, SideLeft)
		if err != nil {
			return nil, nil, err
		}
		rb, err := partition(right, maxGroup, SideRight)
		if err != nil {
			return nil, nil, err
		}
		return lb, rb, nil
	}

	Logger().V(1).Info("bucketing sides concurrently", "left", len(left), "right", len(right))

	var (
		g          errgroup.Group
		lb, rb     *Buckets
		lerr, rerr error
	)
	g.Go(func() error {
		lb, lerr = partition(left, maxGroup, SideLeft)
		return lerr
	})
	g.Go(func() error {
		rb, rerr = partition(right, maxGroup, SideRight)
		return rerr
	})
	if err := g.Wait(); err != nil {
		if lerr != nil {
			return nil, nil, lerr
		}
		return nil, nil, err
	}
	return lb, rb, nil
}
