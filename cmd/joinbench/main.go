// Command joinbench checks the counting-sort group join against the stable
// sort reference and times both.
//
// Usage:
//
//	joinbench -left 1000000 -right 1000000 -groups 50000
//	joinbench -input-left l.parquet -input-right r.parquet -column key -groups 1024 -out pairs.parquet
//	joinbench -input-left l.csv -input-right r.csv -column key -groups 1024 -out pairs.json
//	joinbench -check-fixture
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	groupjoin "github.com/NerdMeNot/groupjoin"
)

type config struct {
	leftRows, rightRows int
	groups              int
	seed                int64
	iterations          int
	inputLeft           string
	inputRight          string
	column              string
	out                 string
	checkFixture        bool
	workers             int
	sequential          bool
	verbosity           int
}

func main() {
	var cfg config
	flag.IntVar(&cfg.leftRows, "left", 100_000, "Number of random left labels.")
	flag.IntVar(&cfg.rightRows, "right", 100_000, "Number of random right labels.")
	flag.IntVar(&cfg.groups, "groups", 1000, "Size of the label space (max_group).")
	flag.Int64Var(&cfg.seed, "seed", 42, "Random seed for generated labels.")
	flag.IntVar(&cfg.iterations, "iterations", 3, "Timed runs per implementation.")
	flag.StringVar(&cfg.inputLeft, "input-left", "", "Read left labels from this .parquet or .csv file instead of generating them.")
	flag.StringVar(&cfg.inputRight, "input-right", "", "Read right labels from this .parquet or .csv file instead of generating them.")
	flag.StringVar(&cfg.column, "column", "group", "Label column name in the input files.")
	flag.StringVar(&cfg.out, "out", "", "Write the joined index pairs to this .parquet or .json file.")
	flag.BoolVar(&cfg.checkFixture, "check-fixture", false, "Only run the fixed eighteen-row scenario.")
	flag.IntVar(&cfg.workers, "workers", 0, "Maximum worker goroutines (0 = GOMAXPROCS).")
	flag.BoolVar(&cfg.sequential, "sequential", false, "Disable parallel bucketing and emission.")
	flag.IntVar(&cfg.verbosity, "v", 0, "Log verbosity; 1 enables per-join diagnostics.")
	flag.Parse()

	log, flush, err := newLogger(cfg.verbosity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()
	groupjoin.SetLogger(log.WithName("groupjoin"))

	if err := run(cfg, log); err != nil {
		log.Error(err, "joinbench failed")
		flush()
		os.Exit(1)
	}
}

func newLogger(verbosity int) (logr.Logger, func(), error) {
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return zapr.NewLogger(zl).WithName("joinbench"), func() { _ = zl.Sync() }, nil
}

func run(cfg config, log logr.Logger) error {
	if cfg.checkFixture {
		return checkFixture(log)
	}

	if cfg.groups <= 0 {
		return errors.Wrapf(groupjoin.ErrInvalidArgument, "-groups must be positive, got %d", cfg.groups)
	}

	left, right, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	log.Info("inputs ready", "left", len(left), "right", len(right), "groups", cfg.groups)

	size, err := groupjoin.OutputSize(left, right, cfg.groups)
	if err != nil {
		return err
	}
	fmt.Printf("=== Group Join Benchmark ===\n")
	fmt.Printf("Left: %d, Right: %d, Groups: %d, Output rows: %d\n\n", len(left), len(right), cfg.groups, size)

	pc := groupjoin.DefaultParallelConfig()
	pc.MaxWorkers = cfg.workers
	pc.Enabled = !cfg.sequential
	opts := groupjoin.DefaultJoinOptions().WithParallel(pc)

	var reference, candidate *groupjoin.IndexPairs
	refTime := benchmark(cfg.iterations, func() error {
		reference, err = groupjoin.StableSortJoin(left, right, cfg.groups)
		return err
	})
	if err != nil {
		return err
	}
	candTime := benchmark(cfg.iterations, func() error {
		candidate, err = groupjoin.JoinPairs(left, right, cfg.groups, opts)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("Reference (stable sort): %v  fingerprint %016x\n", refTime, reference.Fingerprint())
	fmt.Printf("Candidate (counting):    %v  fingerprint %016x\n", candTime, candidate.Fingerprint())
	if candTime > 0 {
		fmt.Printf("Speedup: %.2fx\n", float64(refTime)/float64(candTime))
	}

	if !reference.Equal(candidate) {
		return errors.Newf("candidate differs from reference (%d vs %d rows)", candidate.Len(), reference.Len())
	}
	fmt.Println("Results match")

	if cfg.out != "" {
		if err := writeOutput(cfg.out, candidate); err != nil {
			return err
		}
		log.Info("wrote index pairs", "path", cfg.out, "rows", candidate.Len())
	}
	return nil
}

func writeOutput(path string, pairs *groupjoin.IndexPairs) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return groupjoin.WriteIndexPairsJSON(path, pairs)
	case ".parquet", "":
		return groupjoin.WriteIndexPairsParquet(path, pairs)
	default:
		return errors.Newf("unsupported output format %q", filepath.Ext(path))
	}
}

func readLabels(path, column string) ([]int64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return groupjoin.ReadGroupsCSV(path, column)
	case ".parquet":
		return groupjoin.ReadGroupsParquet(path, column)
	default:
		return nil, errors.Newf("unsupported input format %q", filepath.Ext(path))
	}
}

func loadInputs(cfg config) ([]int64, []int64, error) {
	r := rand.New(rand.NewSource(cfg.seed))
	load := func(path string, n int, side groupjoin.Side) ([]int64, error) {
		if path != "" {
			labels, err := readLabels(path, cfg.column)
			var le *groupjoin.LabelError
			if errors.As(err, &le) {
				le.Side = side
			}
			return labels, err
		}
		labels := make([]int64, n)
		for i := range labels {
			labels[i] = r.Int63n(int64(cfg.groups))
		}
		return labels, nil
	}

	left, err := load(cfg.inputLeft, cfg.leftRows, groupjoin.SideLeft)
	if err != nil {
		return nil, nil, errors.Wrap(err, "left input")
	}
	right, err := load(cfg.inputRight, cfg.rightRows, groupjoin.SideRight)
	if err != nil {
		return nil, nil, errors.Wrap(err, "right input")
	}
	return left, right, nil
}

func checkFixture(log logr.Logger) error {
	left := []int{0, 1, 2, 1, 2, 0, 0, 1, 2, 3, 3}
	right := []int{1, 1, 0, 4, 2, 2, 1, 4}
	want := &groupjoin.IndexPairs{
		Left:  []int{0, 5, 6, 1, 1, 1, 3, 3, 3, 7, 7, 7, 2, 2, 4, 4, 8, 8},
		Right: []int{2, 2, 2, 0, 1, 6, 0, 1, 6, 0, 1, 6, 4, 5, 4, 5, 4, 5},
	}

	for name, fn := range map[string]func() (*groupjoin.IndexPairs, error){
		"reference": func() (*groupjoin.IndexPairs, error) { return groupjoin.StableSortJoin(left, right, 5) },
		"candidate": func() (*groupjoin.IndexPairs, error) { return groupjoin.JoinPairs(left, right, 5) },
	} {
		got, err := fn()
		if err != nil {
			return errors.Wrap(err, name)
		}
		if !got.Equal(want) {
			return errors.Newf("%s: got ls=%v rs=%v", name, got.Left, got.Right)
		}
		log.Info("fixture ok", "impl", name, "rows", got.Len())
	}
	fmt.Println("Fixture OK")
	return nil
}

// benchmark returns the best wall time over iterations runs. It stops at the
// first error, which fn leaves for the caller to inspect.
func benchmark(iterations int, fn func() error) time.Duration {
	var best time.Duration
	for i := 0; i < max(iterations, 1); i++ {
		start := time.Now()
		if err := fn(); err != nil {
			return 0
		}
		if d := time.Since(start); i == 0 || d < best {
			best = d
		}
	}
	return best
}
